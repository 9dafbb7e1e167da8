package wbclient

import "github.com/Gunvolt24/wb_abc/internal/ports"

// Проверка, что StaticCredential удовлетворяет порту CredentialSource.
var _ ports.CredentialSource = StaticCredential("")

// StaticCredential — источник учётных данных с фиксированным ключом
// (ключ берётся из конфигурации при старте и не меняется).
type StaticCredential string

func (c StaticCredential) Credential() string { return string(c) }
