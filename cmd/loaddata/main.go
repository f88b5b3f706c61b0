// Command loaddata seeds the database from the CSV fixtures in DATA_DIR.
// Bad rows are logged and skipped so a partially broken fixture set still
// loads everything it can.
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/VanZep/FeedbackBook/internal/config"
	"github.com/VanZep/FeedbackBook/internal/database"
	"github.com/VanZep/FeedbackBook/internal/models"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	l := &loader{db: db, dataDir: cfg.DataDir, users: make(map[string]string)}

	l.loadUsers("users.csv")
	l.loadCategories("category.csv")
	l.loadGenres("genre.csv")
	l.loadTitles("titles.csv")
	l.loadTitleGenres("genre_title.csv")
	l.loadReviews("review.csv")
	l.loadComments("comments.csv")
	l.resetSequences()
}

type loader struct {
	db      *gorm.DB
	dataDir string

	// fixture user id -> generated uuid, for resolving review/comment authors
	users map[string]string
}

// eachRow streams the named CSV file record by record. The callback returns
// an error to have the row logged and skipped; file-level failures only skip
// that file.
func (l *loader) eachRow(name string, fn func(row map[string]string) error) {
	path := filepath.Join(l.dataDir, name)
	f, err := os.Open(path)
	if err != nil {
		log.Printf("%s: skipped (%v)", name, err)
		return
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		log.Printf("%s: cannot read header (%v)", name, err)
		return
	}

	loaded, skipped := 0, 0
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("%s line %d: %v", name, line, err)
			skipped++
			continue
		}

		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(record) {
				row[h] = record[i]
			}
		}
		if err := fn(row); err != nil {
			log.Printf("%s line %d: %v", name, line, err)
			skipped++
			continue
		}
		loaded++
	}
	log.Printf("%s: %d rows loaded, %d skipped", name, loaded, skipped)
}

func (l *loader) loadUsers(name string) {
	l.eachRow(name, func(row map[string]string) error {
		user := models.User{
			Username: row["username"],
			Email:    row["email"],
			Role:     row["role"],
		}
		if user.Role == "" {
			user.Role = models.RoleUser
		}
		if !models.ValidRole(user.Role) {
			return fmt.Errorf("unknown role %q", user.Role)
		}
		if v := row["first_name"]; v != "" {
			user.FirstName = &v
		}
		if v := row["last_name"]; v != "" {
			user.LastName = &v
		}
		if v := row["bio"]; v != "" {
			user.Bio = &v
		}
		if err := l.db.Create(&user).Error; err != nil {
			return err
		}
		l.users[row["id"]] = user.ID
		return nil
	})
}

func (l *loader) loadCategories(name string) {
	l.eachRow(name, func(row map[string]string) error {
		id, err := strconv.ParseInt(row["id"], 10, 64)
		if err != nil {
			return fmt.Errorf("bad id %q", row["id"])
		}
		return l.db.Create(&models.Category{ID: id, Name: row["name"], Slug: row["slug"]}).Error
	})
}

func (l *loader) loadGenres(name string) {
	l.eachRow(name, func(row map[string]string) error {
		id, err := strconv.ParseInt(row["id"], 10, 64)
		if err != nil {
			return fmt.Errorf("bad id %q", row["id"])
		}
		return l.db.Create(&models.Genre{ID: id, Name: row["name"], Slug: row["slug"]}).Error
	})
}

func (l *loader) loadTitles(name string) {
	l.eachRow(name, func(row map[string]string) error {
		id, err := strconv.ParseInt(row["id"], 10, 64)
		if err != nil {
			return fmt.Errorf("bad id %q", row["id"])
		}
		year, err := strconv.Atoi(row["year"])
		if err != nil {
			return fmt.Errorf("bad year %q", row["year"])
		}
		title := models.Title{ID: id, Name: row["name"], Year: year, Description: row["description"]}
		if v := row["category"]; v != "" {
			categoryID, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("bad category %q", v)
			}
			title.CategoryID = &categoryID
		}
		return l.db.Create(&title).Error
	})
}

func (l *loader) loadTitleGenres(name string) {
	l.eachRow(name, func(row map[string]string) error {
		titleID, err := strconv.ParseInt(row["title_id"], 10, 64)
		if err != nil {
			return fmt.Errorf("bad title_id %q", row["title_id"])
		}
		genreID, err := strconv.ParseInt(row["genre_id"], 10, 64)
		if err != nil {
			return fmt.Errorf("bad genre_id %q", row["genre_id"])
		}
		return l.db.Create(&models.TitleGenre{TitleID: titleID, GenreID: genreID}).Error
	})
}

func (l *loader) loadReviews(name string) {
	l.eachRow(name, func(row map[string]string) error {
		id, err := strconv.ParseInt(row["id"], 10, 64)
		if err != nil {
			return fmt.Errorf("bad id %q", row["id"])
		}
		titleID, err := strconv.ParseInt(row["title_id"], 10, 64)
		if err != nil {
			return fmt.Errorf("bad title_id %q", row["title_id"])
		}
		score, err := strconv.Atoi(row["score"])
		if err != nil || score < models.MinScore || score > models.MaxScore {
			return fmt.Errorf("bad score %q", row["score"])
		}
		authorID, ok := l.users[row["author"]]
		if !ok {
			return fmt.Errorf("unknown author %q", row["author"])
		}
		pubDate, err := parsePubDate(row["pub_date"])
		if err != nil {
			return err
		}
		return l.db.Create(&models.Review{
			ID:       id,
			Text:     row["text"],
			AuthorID: authorID,
			TitleID:  titleID,
			Score:    score,
			PubDate:  pubDate,
		}).Error
	})
}

func (l *loader) loadComments(name string) {
	l.eachRow(name, func(row map[string]string) error {
		id, err := strconv.ParseInt(row["id"], 10, 64)
		if err != nil {
			return fmt.Errorf("bad id %q", row["id"])
		}
		reviewID, err := strconv.ParseInt(row["review_id"], 10, 64)
		if err != nil {
			return fmt.Errorf("bad review_id %q", row["review_id"])
		}
		authorID, ok := l.users[row["author"]]
		if !ok {
			return fmt.Errorf("unknown author %q", row["author"])
		}
		pubDate, err := parsePubDate(row["pub_date"])
		if err != nil {
			return err
		}
		return l.db.Create(&models.Comment{
			ID:       id,
			Text:     row["text"],
			AuthorID: authorID,
			ReviewID: reviewID,
			PubDate:  pubDate,
		}).Error
	})
}

// resetSequences advances the id sequences past the fixture ids. The
// fixtures insert explicit primary keys, which leaves the sequences at
// their defaults, so the next API-side insert would collide.
func (l *loader) resetSequences() {
	for _, table := range []string{"categories", "genres", "titles", "title_genres", "reviews", "comments"} {
		err := l.db.Exec(
			"SELECT setval(pg_get_serial_sequence(?, 'id'), COALESCE((SELECT MAX(id) FROM "+table+"), 0) + 1, false)",
			table,
		).Error
		if err != nil {
			log.Printf("%s: could not reset id sequence (%v)", table, err)
		}
	}
}

func parsePubDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad pub_date %q", s)
	}
	return t, nil
}
