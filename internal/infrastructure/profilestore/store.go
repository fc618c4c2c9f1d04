package profilestore

import (
	"bytes"
	"context"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/samber/lo"

	"collection_finder/internal/domain"
	"collection_finder/internal/domain/entity"
	"collection_finder/internal/domain/value"
	"collection_finder/pkg/contextx"
	"collection_finder/pkg/errcodes"
	"collection_finder/pkg/logx"
)

const DefaultPath = "collection_config.json"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type SaveOutcome string

const (
	Inserted SaveOutcome = "inserted"
	Updated  SaveOutcome = "updated"
)

// Store хранит профили требований в одном JSON-документе. Каждое изменение
// переписывает документ целиком из копии в памяти.
type Store struct {
	path string

	mu     sync.RWMutex
	config entity.Configuration
}

// Open читает документ. Отсутствующий файл даёт пустую конфигурацию. Если
// документ не разбирается, возвращается рабочий пустой Store вместе с ошибкой
// ConfigLoadFailed: вызывающий показывает её и продолжает работу.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}

	s := &Store{
		path:   path,
		config: entity.Configuration{},
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger(ctx).Info("profile document not found, starting empty", slog.String(logx.FieldPath, path))

			return s, nil
		}

		return s, domain.WrapError(err, errcodes.ConfigLoadFailed, "read "+path)
	}

	doc, version, err := decodeDocument(raw)
	if err != nil {
		return s, domain.WrapError(err, errcodes.ConfigLoadFailed, "parse "+path)
	}

	switch version {
	case schemaUnknown:
		logger(ctx).Warn("profile document has no known shape, starting empty", slog.String(logx.FieldPath, path))
	case schemaLegacy:
		logger(ctx).Info("legacy profile document upgraded", slog.String(logx.FieldPath, path))
	}

	s.config = newDomainConfiguration(ctx, doc)

	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

// Snapshot копия конфигурации; последующие изменения Store её не затрагивают.
func (s *Store) Snapshot() entity.Configuration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.config.Clone()
}

func (s *Store) Get(set value.SetName) (entity.Requirements, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.config[set]
	if !ok {
		return nil, false
	}

	return req.Clone(), true
}

// Save проверяет и сохраняет профиль. При ошибке проверки или записи состояние
// не меняется.
func (s *Store) Save(
	ctx context.Context,
	set value.SetName,
	requirements entity.Requirements,
) (SaveOutcome, error) {
	normalized, err := Validate(set, requirements)
	if err != nil {
		return "", fmt.Errorf("profilestore.Validate: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := Inserted
	if _, ok := s.config[set]; ok {
		outcome = Updated
	}

	next := s.config.Clone()
	next[set] = normalized

	if err = s.write(next); err != nil {
		return "", err
	}

	s.config = next

	logger(ctx).Info("profile saved",
		slog.String(logx.FieldSet, set.String()),
		slog.String(logx.FieldOutcome, string(outcome)),
	)

	return outcome, nil
}

// Delete удаляет профиль; отсутствующий профиль не ошибка.
func (s *Store) Delete(ctx context.Context, set value.SetName) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.config[set]; !ok {
		return false, nil
	}

	next := s.config.Clone()
	delete(next, set)

	if err := s.write(next); err != nil {
		return false, err
	}

	s.config = next

	logger(ctx).Info("profile deleted", slog.String(logx.FieldSet, set.String()))

	return true, nil
}

func (s *Store) write(config entity.Configuration) error {
	raw, err := json.Marshal(newDocument(config))
	if err != nil {
		return domain.WrapError(err, errcodes.ConfigSaveFailed, "encode profiles")
	}

	// jsoniter сбивает отступы во вложенных map, поэтому отступы ставит encoding/json.
	var b bytes.Buffer
	if err = stdjson.Indent(&b, raw, "", "  "); err != nil {
		return domain.WrapError(err, errcodes.ConfigSaveFailed, "indent profiles")
	}

	b.WriteByte('\n')

	dir := filepath.Dir(s.path)
	if err = os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return domain.WrapError(err, errcodes.ConfigSaveFailed, "create "+dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return domain.WrapError(err, errcodes.ConfigSaveFailed, "create temp file")
	}

	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err = tmp.Write(b.Bytes()); err != nil {
		tmp.Close() //nolint:errcheck,gosec

		return domain.WrapError(err, errcodes.ConfigSaveFailed, "write "+tmp.Name())
	}

	if err = tmp.Close(); err != nil {
		return domain.WrapError(err, errcodes.ConfigSaveFailed, "close "+tmp.Name())
	}

	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return domain.WrapError(err, errcodes.ConfigSaveFailed, "replace "+s.path)
	}

	return nil
}

func newDocument(config entity.Configuration) document {
	doc := document{Sets: make(map[string]map[string][]string, len(config))}

	for set, req := range config {
		pieces := make(map[string][]string, len(req))
		for piece, codes := range req {
			pieces[piece.String()] = lo.Map(codes, func(c value.OptionCode, _ int) string {
				return c.String()
			})
		}

		doc.Sets[set.String()] = pieces
	}

	return doc
}

// newDomainConfiguration переводит документ в доменную модель. В отличие от
// Save загрузка мягкая: неизвестные слоты и коды, а также слоты, которых у сета
// нет, отбрасываются, а остальные требования профиля сохраняются. Пропускаются
// только профили с неизвестным сетом или без единой опции.
func newDomainConfiguration(ctx context.Context, doc document) entity.Configuration {
	config := make(entity.Configuration, len(doc.Sets))

	for rawSet, rawPieces := range doc.Sets {
		set, err := value.ParseSetName(rawSet)
		if err != nil {
			logger(ctx).Warn("skip stored profile", slog.String(logx.FieldSet, rawSet), logx.Error(err))

			continue
		}

		req := make(entity.Requirements, len(rawPieces))

		for rawPiece, rawCodes := range rawPieces {
			piece, err := value.ParsePiece(rawPiece)
			if err != nil {
				logger(ctx).Warn("skip stored piece", slog.String(logx.FieldSet, rawSet), logx.Error(err))

				continue
			}

			codes := lo.Uniq(lo.FilterMap(rawCodes, func(raw string, _ int) (value.OptionCode, bool) {
				code, err := value.ParseOptionCode(raw)

				return code, err == nil
			}))
			if len(codes) < len(lo.Uniq(rawCodes)) {
				logger(ctx).Warn("skip unknown stored options",
					slog.String(logx.FieldSet, rawSet),
					slog.String(logx.FieldPiece, rawPiece),
				)
			}

			if len(codes) == 0 {
				continue
			}

			if !set.HasPiece(piece) {
				logger(ctx).Warn("skip stored piece",
					slog.String(logx.FieldSet, rawSet),
					slog.String(logx.FieldPiece, rawPiece),
					slog.String(logx.FieldReason, set.MissingPieceReason(piece)),
				)

				continue
			}

			slices.SortFunc(codes, value.CompareOptionCodes)
			req[piece] = codes
		}

		if req.OptionCount() == 0 {
			logger(ctx).Warn("skip stored profile without options", slog.String(logx.FieldSet, rawSet))

			continue
		}

		config[set] = req
	}

	return config
}
