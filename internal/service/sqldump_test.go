package service

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"yingcang/pic-api/internal/model"
)

func TestIsSafeLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		safe bool
	}{
		{"blank", "", true},
		{"whitespace", "   ", true},
		{"comment", "-- Table pics", true},
		{"block comment", "/* hello */", true},
		{"hash is not a comment", "# hello", false},
		{"insert", "INSERT INTO pics (pid) VALUES ('1');", true},
		{"lowercase insert", "insert into albums (aid) values ('1');", true},
		{"select", "SELECT * FROM tokens;", false},
		{"update", "UPDATE configs SET value = 'x';", false},
		{"drop", "DROP TABLE pics;", false},
		{"insert smuggling a drop", "INSERT INTO pics (pic_desc) VALUES ('x'); DROP TABLE pics;", false},
		{"keyword inside a word", "INSERT INTO pics (pic_desc) VALUES ('updated');", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSafeLine(tt.line); got != tt.safe {
				t.Errorf("IsSafeLine(%q) = %v, want %v", tt.line, got, tt.safe)
			}
		})
	}
}

func TestImportRejectsForbiddenStatement(t *testing.T) {
	db := newTestDB(t)
	s := NewSQLTransfer(db)

	dump := strings.Join([]string{
		"-- Table configs",
		"INSERT INTO configs (name, value) VALUES ('app_name', 'x');",
		"UPDATE configs SET value = 'evil';",
	}, "\n")

	err := s.Import(strings.NewReader(dump))
	if !errors.Is(err, ErrUnsafeSQL) {
		t.Fatalf("Import() = %v, want ErrUnsafeSQL", err)
	}

	// The safe statement before the abort stays applied
	var rows int64
	db.Model(model.Config{}).Where("name = ?", "app_name").Count(&rows)
	if rows != 1 {
		t.Errorf("Expected the row inserted before the abort, got %d rows", rows)
	}
}

func TestDumpImportRoundTrip(t *testing.T) {
	db := newTestDB(t)
	s := NewSQLTransfer(db)

	seed := []model.Config{
		{Name: "app_name", Value: "vault"},
		{Name: "web_title", Value: "my vault"},
	}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("Failed to seed configs: %v", err)
	}

	pics := []model.Pic{
		{UUID: "one", PicName: "one.jpg", PicSuffix: ".jpg", AlbumID: model.DefaultAlbumID},
		{UUID: "two", PicName: "two.jpg", PicSuffix: ".jpg", AlbumID: model.DefaultAlbumID},
	}
	if err := db.Create(&pics).Error; err != nil {
		t.Fatalf("Failed to seed pics: %v", err)
	}

	var dump bytes.Buffer
	if err := s.Dump(&dump); err != nil {
		t.Fatalf("Dump failed: %v", err)
	}

	for _, table := range []string{"configs", "albums", "pics", "tokens"} {
		if !strings.Contains(dump.String(), "-- Table "+table) {
			t.Errorf("Dump missing header for %s", table)
		}
	}

	// Wipe a table, then restore from the dump
	if err := db.Where("1 = 1").Delete(model.Pic{}).Error; err != nil {
		t.Fatalf("Failed to clear pics: %v", err)
	}

	if err := s.Import(&dump); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	var picCount, configCount, albumCount int64
	db.Model(model.Pic{}).Count(&picCount)
	db.Model(model.Config{}).Count(&configCount)
	db.Model(model.Album{}).Count(&albumCount)

	if picCount != 2 {
		t.Errorf("pics = %d, want 2", picCount)
	}
	if configCount != 2 {
		t.Errorf("configs = %d, want 2", configCount)
	}
	if albumCount != 1 {
		t.Errorf("albums = %d, want 1", albumCount)
	}

	var restored model.Pic
	if err := db.Where("uuid = ?", "one").First(&restored).Error; err != nil {
		t.Fatalf("Expected restored pic: %v", err)
	}
	if restored.PicName != "one.jpg" {
		t.Errorf("PicName = %q, want one.jpg", restored.PicName)
	}
}

func TestSQLLiteral(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		expected string
	}{
		{"nil", nil, "NULL"},
		{"string", "hello", "'hello'"},
		{"bytes", []byte("raw"), "'raw'"},
		{"int", int64(7), "'7'"},
		{"quote escaped", "it's", `'it\'s'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sqlLiteral(tt.in); got != tt.expected {
				t.Errorf("sqlLiteral(%v) = %q, want %q", tt.in, got, tt.expected)
			}
		})
	}
}
