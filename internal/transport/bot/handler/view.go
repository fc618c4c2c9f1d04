package handler

const (
	StartMessage = `🔎 <b>Collection finder</b>

/profiles - сохранённые профили
/search [сет] [Валюта=цена ...] - поиск, например <code>/search Bronze Chaos=150</code>
/debug [сет] - сырые цены первых лотов
/status - текущие запуски
/result <code>ID</code> - итог запуска

Итог поиска приходит в чат после завершения.`

	ResultMissingArgument = "❌ Использование: /result <code>ID</code>"
	NoProfilesMessage     = "📋 Профилей пока нет. Сохраните профиль через API или CLI."
)
