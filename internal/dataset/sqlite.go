package dataset

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/latebit/degrees/internal/movies"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const batchSize = 500

type personModel struct {
	ID    string `gorm:"primaryKey"`
	Name  string `gorm:"not null;index"`
	Birth string `gorm:"not null;default:''"`
}

func (personModel) TableName() string { return "people" }

type movieModel struct {
	ID    string `gorm:"primaryKey"`
	Title string `gorm:"not null"`
	Year  string `gorm:"not null;default:''"`
}

func (movieModel) TableName() string { return "movies" }

type starModel struct {
	PersonID string `gorm:"primaryKey"`
	MovieID  string `gorm:"primaryKey;index"`
}

func (starModel) TableName() string { return "stars" }

// OpenDB opens (or creates) a SQLite dataset file.
func OpenDB(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
}

// CloseDB releases the underlying connection pool.
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates the people, movies and stars tables.
func Migrate(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	p, err := migrationProvider(sqlDB)
	if err != nil {
		return err
	}
	_, err = p.Up(ctx)
	return err
}

// SchemaVersion reports the newest migration applied to db.
func SchemaVersion(ctx context.Context, db *gorm.DB) (int64, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, err
	}
	p, err := migrationProvider(sqlDB)
	if err != nil {
		return 0, err
	}
	return p.GetDBVersion(ctx)
}

// migrationProvider keeps goose state per database instead of in package
// globals.
func migrationProvider(db *sql.DB) (*goose.Provider, error) {
	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}
	return goose.NewProvider(goose.DialectSQLite3, db, fsys)
}

// ReadDB loads all three tables ordered by key. Records carry their row
// ordinal as line number.
func ReadDB(ctx context.Context, db *gorm.DB) (Records, error) {
	var (
		people []personModel
		films  []movieModel
		stars  []starModel
	)
	tx := db.WithContext(ctx)
	if err := tx.Order("id").Find(&people).Error; err != nil {
		return Records{}, err
	}
	if err := tx.Order("id").Find(&films).Error; err != nil {
		return Records{}, err
	}
	if err := tx.Order("movie_id, person_id").Find(&stars).Error; err != nil {
		return Records{}, err
	}

	recs := Records{
		People: make([]movies.PersonRecord, 0, len(people)),
		Movies: make([]movies.MovieRecord, 0, len(films)),
		Stars:  make([]movies.CastRecord, 0, len(stars)),
	}
	for i, p := range people {
		recs.People = append(recs.People, movies.PersonRecord{Line: i + 1, ID: p.ID, Name: p.Name, Birth: p.Birth})
	}
	for i, m := range films {
		recs.Movies = append(recs.Movies, movies.MovieRecord{Line: i + 1, ID: m.ID, Title: m.Title, Year: m.Year})
	}
	for i, s := range stars {
		recs.Stars = append(recs.Stars, movies.CastRecord{Line: i + 1, PersonID: s.PersonID, MovieID: s.MovieID})
	}
	return recs, nil
}

// WriteDB stores records in one transaction. Rows whose key already exists
// are left untouched. Stars referencing unknown ids are stored as-is; they
// are dropped when the index is built.
func WriteDB(ctx context.Context, db *gorm.DB, recs Records) error {
	people := make([]personModel, 0, len(recs.People))
	for _, p := range recs.People {
		people = append(people, personModel{ID: p.ID, Name: p.Name, Birth: p.Birth})
	}
	films := make([]movieModel, 0, len(recs.Movies))
	for _, m := range recs.Movies {
		films = append(films, movieModel{ID: m.ID, Title: m.Title, Year: m.Year})
	}
	stars := make([]starModel, 0, len(recs.Stars))
	for _, s := range recs.Stars {
		stars = append(stars, starModel{PersonID: s.PersonID, MovieID: s.MovieID})
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		skip := clause.OnConflict{DoNothing: true}
		if len(people) > 0 {
			if err := tx.Clauses(skip).CreateInBatches(&people, batchSize).Error; err != nil {
				return err
			}
		}
		if len(films) > 0 {
			if err := tx.Clauses(skip).CreateInBatches(&films, batchSize).Error; err != nil {
				return err
			}
		}
		if len(stars) > 0 {
			if err := tx.Clauses(skip).CreateInBatches(&stars, batchSize).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
