package ports

import "context"

// Background — фоновый компонент с жизненным циклом (консьюмер, воркер сохранения).
type Background interface {
	Run(ctx context.Context) error
	Close() error
}
