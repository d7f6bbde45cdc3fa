package cache

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// entryRecord is the sqlite-backed metadata row behind one cache entry: the
// disk store holds the artifact bytes, this index holds the bookkeeping
// (size, last access) the eviction policy needs without listing the whole
// shard tree on every Put.
type entryRecord struct {
	Key          string `gorm:"primaryKey"` // hashHex:stage
	HashHex      string `gorm:"index"`
	Stage        string `gorm:"index"`
	SizeBytes    int64
	LastAccessed time.Time `gorm:"index"`
	CreatedAt    time.Time
}

// Index is the on-disk LRU metadata store, backed by sqlite so entry
// bookkeeping survives a process restart the way the artifact shards on
// disk already do.
type Index struct {
	db *gorm.DB
}

func openIndex(path string) (*Index, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&entryRecord{}); err != nil {
		return nil, err
	}
	return &Index{db: db}, nil
}

func (idx *Index) touch(key, hashHex, stage string, size int64) error {
	now := time.Now()
	record := entryRecord{Key: key, HashHex: hashHex, Stage: stage, SizeBytes: size, LastAccessed: now, CreatedAt: now}
	return idx.db.Save(&record).Error
}

func (idx *Index) remove(key string) error {
	return idx.db.Delete(&entryRecord{}, "key = ?", key).Error
}

// oldest returns the n least-recently-touched entries, for the disk
// tier's eviction sweep.
func (idx *Index) oldest(n int) ([]entryRecord, error) {
	var records []entryRecord
	err := idx.db.Order("last_accessed asc").Limit(n).Find(&records).Error
	return records, err
}

// totalBytes sums SizeBytes across every tracked entry.
func (idx *Index) totalBytes() (int64, error) {
	var total int64
	err := idx.db.Model(&entryRecord{}).Select("COALESCE(SUM(size_bytes), 0)").Scan(&total).Error
	return total, err
}
