package server

// Server объединяет HTTP-серверы отдельных сущностей: каталог, профили и запуски.
type Server struct {
	CatalogServer
	ProfileServer
	RunServer
}

func NewServer(
	catalogServer CatalogServer,
	profileServer ProfileServer,
	runServer RunServer,
) Server {
	return Server{
		CatalogServer: catalogServer,
		ProfileServer: profileServer,
		RunServer:     runServer,
	}
}
