package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/focusflow/internal/config"
	"github.com/julianstephens/focusflow/internal/keyring"
	"github.com/julianstephens/focusflow/internal/storage"
	"github.com/julianstephens/focusflow/internal/storage/postgres"
	"github.com/julianstephens/focusflow/internal/storage/sqlite"
)

// KeyringDSN in storage.dsn reads the connection string from the OS keyring.
const KeyringDSN = "keyring"

// OpenStore returns the storage.Provider named by dsn: a PostgreSQL
// connection string, the keyring placeholder, or a SQLite file path.
func OpenStore(dsn string) (storage.Provider, error) {
	fromKeyring := false
	if dsn == KeyringDSN {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, fmt.Errorf("no connection string found in keyring. Use 'focusflow keyring set' to store one")
			}
			return nil, err
		}
		dsn = connStr
		fromKeyring = true
	}

	if storage.IsPostgresDSN(dsn) || strings.Contains(dsn, "host=") {
		// The keyring is encrypted, so credentials stored there are accepted
		if !fromKeyring && postgres.HasEmbeddedCredentials(dsn) {
			return nil, fmt.Errorf("%w. Use 'focusflow keyring set' or a .pgpass file instead", postgres.ErrEmbeddedCredentials)
		}
		return postgres.New(dsn), nil
	}

	path, err := config.ExpandHome(dsn)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(path), nil
}
