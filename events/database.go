package events

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/phuslu/log"
)

// ErrCorruptedDatabase signals a version mismatch or truncated record on
// load; the database is left empty.
var ErrCorruptedDatabase = errors.New("corrupted event database")

// Binary file layout (little-endian):
//
//	int32 version (currently 1)
//	int32 event count N
//	N fixed-size records: date[12] title[96] desc[256] sentiment float64 impact int32
const (
	fileVersion = 1

	dateCap  = 12
	titleCap = 96
	descCap  = 256
)

const recordSize = dateCap + titleCap + descCap + 8 + 4

// Database is an append-only event store. Records are immutable once
// appended. Within one analysis invocation it is owned exclusively;
// callers serialize any sharing.
type Database struct {
	records []Record
}

func NewDatabase() *Database {
	return &Database{records: make([]Record, 0, 16)}
}

func (db *Database) Len() int {
	return len(db.records)
}

// Append stores one event. Storage doubles when full, so appends are
// amortized O(1).
func (db *Database) Append(r Record) {
	if len(db.records) == cap(db.records) {
		grown := make([]Record, len(db.records), 2*maxCap(cap(db.records), 8))
		copy(grown, db.records)
		db.records = grown
	}
	db.records = append(db.records, r)
}

func maxCap(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// All returns the stored records in append order. Callers must not
// modify the returned slice.
func (db *Database) All() []Record {
	return db.records
}

// FindByDateRange returns events with start <= date <= end. ISO date
// strings sort lexically, so plain string comparison is enough.
func (db *Database) FindByDateRange(start, end string) []Record {
	var out []Record
	for _, r := range db.records {
		if r.Date >= start && r.Date <= end {
			out = append(out, r)
		}
	}
	return out
}

// FindByType classifies each stored event on the fly and returns the
// matches, so records stored before a classifier change still land in the
// right bucket.
func (db *Database) FindByType(t EventType) []Record {
	var out []Record
	for _, r := range db.records {
		if Classify(r.Title, r.Description) == t {
			out = append(out, r)
		}
	}
	return out
}

// Stats summarizes the stored events.
type Stats struct {
	Total       int
	LastMonth   int
	LastYear    int
	OldestDate  string
	NewestDate  string
	CountByType map[EventType]int
}

func (db *Database) Stats() Stats {
	s := Stats{CountByType: make(map[EventType]int)}
	s.Total = len(db.records)
	if s.Total == 0 {
		return s
	}

	now := time.Now().UTC()
	monthAgo := now.AddDate(0, -1, 0).Format("2006-01-02")
	yearAgo := now.AddDate(-1, 0, 0).Format("2006-01-02")

	s.OldestDate = db.records[0].Date
	s.NewestDate = db.records[0].Date
	for _, r := range db.records {
		if r.Date < s.OldestDate {
			s.OldestDate = r.Date
		}
		if r.Date > s.NewestDate {
			s.NewestDate = r.Date
		}
		if r.Date >= monthAgo {
			s.LastMonth++
		}
		if r.Date >= yearAgo {
			s.LastYear++
		}
		s.CountByType[Classify(r.Title, r.Description)]++
	}
	return s
}

// Save writes the database to path in the versioned binary format.
func (db *Database) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save event database: %w", err)
	}
	defer f.Close()

	if err := binary.Write(f, binary.LittleEndian, int32(fileVersion)); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, int32(len(db.records))); err != nil {
		return err
	}

	buf := make([]byte, recordSize)
	for _, r := range db.records {
		packRecord(buf, r)
		if _, err := f.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// Load replaces the database contents with the file at path. A version
// mismatch or short read leaves the database empty and returns
// ErrCorruptedDatabase.
func (db *Database) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("load event database: %w", err)
	}
	defer f.Close()

	db.records = db.records[:0]

	var version, count int32
	if err := binary.Read(f, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("read header: %w", ErrCorruptedDatabase)
	}
	if version != fileVersion {
		return fmt.Errorf("version %d, want %d: %w", version, fileVersion, ErrCorruptedDatabase)
	}
	if err := binary.Read(f, binary.LittleEndian, &count); err != nil || count < 0 {
		return fmt.Errorf("read count: %w", ErrCorruptedDatabase)
	}

	buf := make([]byte, recordSize)
	for i := int32(0); i < count; i++ {
		if _, err := io.ReadFull(f, buf); err != nil {
			db.records = db.records[:0]
			return fmt.Errorf("record %d truncated: %w", i, ErrCorruptedDatabase)
		}
		db.Append(unpackRecord(buf))
	}

	log.Info().Str("path", path).Int("events", len(db.records)).Msg("event database loaded")
	return nil
}

// Backup copies the database file to a sibling <path>.bak.
func Backup(path string) error {
	return copyFile(path, path+".bak")
}

// Restore replaces the database file with its <path>.bak sibling.
func Restore(path string) error {
	return copyFile(path+".bak", path)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

func packRecord(buf []byte, r Record) {
	for i := range buf {
		buf[i] = 0
	}
	off := 0
	off += packString(buf[off:off+dateCap], r.Date)
	off += packString(buf[off:off+titleCap], r.Title)
	off += packString(buf[off:off+descCap], r.Description)
	binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(r.Sentiment))
	off += 8
	binary.LittleEndian.PutUint32(buf[off:], uint32(int32(r.ImpactScore+0.5)))
}

// packString copies s into dst. Oversize values are cut back to a rune
// boundary so a reload never sees a split multi-byte character.
func packString(dst []byte, s string) int {
	b := []byte(s)
	if len(b) > len(dst) {
		cut := len(dst)
		for cut > 0 && b[cut]&0xC0 == 0x80 {
			cut--
		}
		log.Warn().Int("len", len(b)).Int("cap", len(dst)).Msg("event field truncated")
		b = b[:cut]
	}
	copy(dst, b)
	return len(dst)
}

func unpackRecord(buf []byte) Record {
	off := 0
	date := unpackString(buf[off : off+dateCap])
	off += dateCap
	title := unpackString(buf[off : off+titleCap])
	off += titleCap
	desc := unpackString(buf[off : off+descCap])
	off += descCap
	sentiment := math.Float64frombits(binary.LittleEndian.Uint64(buf[off:]))
	off += 8
	impact := int32(binary.LittleEndian.Uint32(buf[off:]))

	r := Record{
		Date:        date,
		Title:       title,
		Description: desc,
		Sentiment:   sentiment,
		ImpactScore: float64(impact),
	}
	r.Type = Classify(title, desc)
	r.Severity = severityFor(r.ImpactScore)
	return r
}

func unpackString(b []byte) string {
	end := len(b)
	for i, c := range b {
		if c == 0 {
			end = i
			break
		}
	}
	return string(b[:end])
}
