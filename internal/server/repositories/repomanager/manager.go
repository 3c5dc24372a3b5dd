package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/chyrp/internal/dbx"
	"github.com/dmitrijs2005/chyrp/internal/server/repositories/posts"
	"github.com/dmitrijs2005/chyrp/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/chyrp/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a connection or transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Posts(db dbx.DBTX) posts.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
