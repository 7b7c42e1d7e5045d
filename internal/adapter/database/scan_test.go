package database_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"todoapp/internal/adapter/database"
)

type scanRow struct {
	ID        int64      `db:"id"`
	PublicID  uuid.UUID  `db:"public_id"`
	Label     string     `db:"label"`
	CreatedAt time.Time  `db:"created_at"`
	RemovedAt *time.Time `db:"removed_at"`
	OwnerID   *uuid.UUID `db:"owner_id"`
	Ignored   string     `db:"note" scan:"skip"`
}

type ScannerTestSuite struct {
	suite.Suite
	db      *sql.DB
	scanner *database.Scanner
}

func TestScannerTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(ScannerTestSuite))
}

func (s *ScannerTestSuite) SetupTest() {
	db, err := sql.Open("sqlite3", ":memory:")
	Expect(err).ToNot(HaveOccurred())
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		public_id TEXT NOT NULL,
		label TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		removed_at DATETIME NULL,
		owner_id TEXT NULL,
		note TEXT NULL
	)`)
	Expect(err).ToNot(HaveOccurred())

	s.db = db
	s.scanner = database.NewScanner()
}

func (s *ScannerTestSuite) TearDownTest() {
	s.db.Close()
}

func (s *ScannerTestSuite) insert(label string, removedAt *time.Time, owner *uuid.UUID) uuid.UUID {
	id := uuid.New()
	var ownerValue any
	if owner != nil {
		ownerValue = owner.String()
	}

	_, err := s.db.Exec(
		"INSERT INTO items (public_id, label, created_at, removed_at, owner_id, note) VALUES (?, ?, ?, ?, ?, ?)",
		id.String(), label, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), removedAt, ownerValue, "secret",
	)
	Expect(err).ToNot(HaveOccurred())

	return id
}

func (s *ScannerTestSuite) TestScanRowToStruct_NullPointers() {
	id := s.insert("first", nil, nil)

	rows, err := s.db.Query("SELECT * FROM items")
	Expect(err).ToNot(HaveOccurred())
	defer rows.Close()

	var row scanRow
	Expect(s.scanner.ScanRowToStruct(rows, &row)).To(Succeed())

	Expect(row.ID).To(Equal(int64(1)))
	Expect(row.PublicID).To(Equal(id))
	Expect(row.Label).To(Equal("first"))
	Expect(row.CreatedAt).To(Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
	Expect(row.RemovedAt).To(BeNil())
	Expect(row.OwnerID).To(BeNil())
	Expect(row.Ignored).To(BeEmpty())
}

func (s *ScannerTestSuite) TestScanRowToStruct_PopulatedPointers() {
	removed := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	owner := uuid.New()
	s.insert("second", &removed, &owner)

	rows, err := s.db.Query("SELECT * FROM items")
	Expect(err).ToNot(HaveOccurred())
	defer rows.Close()

	var row scanRow
	Expect(s.scanner.ScanRowToStruct(rows, &row)).To(Succeed())

	Expect(row.RemovedAt).ToNot(BeNil())
	Expect(*row.RemovedAt).To(Equal(removed))
	Expect(row.OwnerID).ToNot(BeNil())
	Expect(*row.OwnerID).To(Equal(owner))
}

func (s *ScannerTestSuite) TestScanRowToStruct_Empty() {
	rows, err := s.db.Query("SELECT * FROM items")
	Expect(err).ToNot(HaveOccurred())
	defer rows.Close()

	var row scanRow
	Expect(s.scanner.ScanRowToStruct(rows, &row)).To(MatchError(sql.ErrNoRows))
}

func (s *ScannerTestSuite) TestScanRowsToSlice_KeepsEveryRow() {
	s.insert("a", nil, nil)
	s.insert("b", nil, nil)
	s.insert("c", nil, nil)

	rows, err := s.db.Query("SELECT * FROM items ORDER BY id")
	Expect(err).ToNot(HaveOccurred())
	defer rows.Close()

	var items []*scanRow
	Expect(s.scanner.ScanRowsToSlice(rows, &items)).To(Succeed())

	Expect(items).To(HaveLen(3))
	Expect(items[0].Label).To(Equal("a"))
	Expect(items[2].Label).To(Equal("c"))
}

func (s *ScannerTestSuite) TestScanRowsToSlice_RejectsNonSlice() {
	rows, err := s.db.Query("SELECT * FROM items")
	Expect(err).ToNot(HaveOccurred())
	defer rows.Close()

	var row scanRow
	Expect(s.scanner.ScanRowsToSlice(rows, &row)).To(HaveOccurred())
}
