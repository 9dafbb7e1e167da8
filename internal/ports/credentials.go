package ports

// CredentialSource — источник учётных данных для внешнего API.
// Отсутствие ключа до инициализации клиента — ошибка конфигурации, не рантайма.
type CredentialSource interface {
	Credential() string
}
