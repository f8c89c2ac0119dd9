package teaminfo

import "context"

type Repository interface {
	ListAll(ctx context.Context) ([]Info, error)
	UpsertBatch(ctx context.Context, infos []Info) (int, error)
}
