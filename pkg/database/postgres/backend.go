package postgres

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	gomigratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq" // initialises postgres
	"github.com/rs/zerolog/log"

	"github.com/gazhub/offline-worker/pkg/e"
	"github.com/gazhub/offline-worker/pkg/s"
)

//go:embed migrations/*.sql
var fs embed.FS

type Backend struct {
	db *sql.DB
}

func NewPostgresBackend(connectionString string) (*Backend, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return &Backend{}, fmt.Errorf("%w: %v", e.ErrStoreUnavailable, err)
	}

	backend := Backend{
		db: db,
	}

	if err = backend.Migrate(); err != nil {
		return &Backend{}, fmt.Errorf("%w: %v", e.ErrStoreUnavailable, err)
	}

	return &backend, nil
}

func (b *Backend) Type() string { return "postgres" }

func (b *Backend) Migrate() error {
	driver, err := gomigratepostgres.WithInstance(b.db, &gomigratepostgres.Config{})
	if err != nil {
		return err
	}

	d, err := iofs.New(fs, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", d, "postgres", driver)
	if err != nil {
		return err
	}

	log.Info().Msg("Starting database migrations")
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	log.Info().Msg("Finished database migrations")

	return nil
}

func (b *Backend) EnqueueAction(action s.PendingAction) (int64, error) {
	method := action.Method
	if method == "" {
		method = "POST"
	}

	headers, err := json.Marshal(action.Headers)
	if err != nil {
		return -1, err
	}
	created := action.CreatedAt
	if created == "" {
		created = time.Now().UTC().Format(time.RFC3339)
	}

	var actionID int64
	err = b.db.QueryRow(InsertAction, action.URL, method, string(headers), string(action.Data), created).Scan(&actionID)
	if err != nil {
		return -1, err
	}

	log.Debug().Int64("action_id", actionID).Str("url", action.URL).Msg("Queued pending action")
	return actionID, nil
}

func (b *Backend) ListActions() ([]s.PendingAction, error) {
	rows, err := b.db.Query(ListActions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]s.PendingAction, 0)
	for rows.Next() {
		var action s.PendingAction
		var headers, data string
		if err2 := rows.Scan(&action.ID, &action.URL, &action.Method, &headers, &data, &action.CreatedAt); err2 != nil {
			return nil, err2
		}
		if headers != "" && headers != "null" {
			if err2 := json.Unmarshal([]byte(headers), &action.Headers); err2 != nil {
				return nil, err2
			}
		}
		if data != "" {
			action.Data = json.RawMessage(data)
		}
		result = append(result, action)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (b *Backend) RemoveAction(id int64) error {
	result, err := b.db.Exec(DeleteAction, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := result.RowsAffected()
	log.Debug().Int64("action_id", id).Int64("rows", rowsAffected).Msg("Removed pending action")

	return nil
}

func (b *Backend) StageFile(file s.StagedFile) error {
	_, err := b.db.Exec(InsertStagedFile, file.ID, file.Name, file.ContentType, file.Size, file.Content, file.Timestamp)
	return err
}

func (b *Backend) GetStagedFile(id string) (s.StagedFile, error) {
	var file s.StagedFile
	err := b.db.QueryRow(GetStagedFile, id).Scan(&file.ID, &file.Name, &file.ContentType, &file.Size, &file.Content, &file.Timestamp)
	if err == sql.ErrNoRows {
		return s.StagedFile{}, e.ErrNotFound
	} else if err != nil {
		return s.StagedFile{}, err
	}

	return file, nil
}

func (b *Backend) DeleteStagedFile(id string) error {
	_, err := b.db.Exec(DeleteStagedFile, id)
	return err
}

func (b *Backend) SweepStagedFiles(olderThan time.Time) (int, error) {
	result, err := b.db.Exec(SweepStagedFiles, olderThan.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	rowsAffected, _ := result.RowsAffected()

	return int(rowsAffected), nil
}
