// Package rundb persists dispatch run records to a local goleveldb store,
// adapted from the teacher's cloudlus.DB: the same current/finished index
// scheme and age/size-bounded garbage collection, repointed at dispatch
// runs instead of cyclus simulation jobs.
package rundb

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Status mirrors the lifecycle names used by dispatchjob.DispatchJob so a
// run's leveldb record and the in-memory job in flight always agree.
type Status string

const (
	StatusQueued   Status = "queued"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// Record is the persisted summary of one solve run: enough to render a
// history view or recompute why a run failed, without keeping the full
// system/model payload around forever.
type Record struct {
	Id             string
	Status         Status
	ObjectiveValue float64
	SolveTimeS     float64
	Warnings       []string
	Message        string
	Submitted      time.Time
	Finished       time.Time
}

func (r Record) done() bool {
	return r.Status == StatusComplete || r.Status == StatusFailed
}

// DB wraps a goleveldb handle with the current/finished secondary indexes
// and GC policy from the teacher's cloudlus.DB.
type DB struct {
	db *leveldb.DB
	// Limit is the cumulative maximum number of bytes the store can hold
	// (measured as json-encoded record size) before GC starts purging.
	Limit int64
	// PurgeAge is the minimum age at which a finished run becomes eligible
	// for removal during GC.
	PurgeAge time.Duration
}

// Open returns a DB backed by path, or an in-memory store if path is empty.
func Open(path string, limitBytes int64) (*DB, error) {
	d := &DB{Limit: limitBytes, PurgeAge: 30 * time.Minute}
	var db *leveldb.DB
	var err error
	if path == "" {
		db, err = leveldb.Open(storage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	if err != nil {
		return nil, err
	}
	d.db = db
	return d, nil
}

func (d *DB) Close() error { return d.db.Close() }

const finishPrefix = "finish-"
const currPrefix = "curr-"

func finishKey(r Record) []byte {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, uint64(r.Finished.Unix()))
	key := append([]byte(finishPrefix), data...)
	key = append(key, '-')
	return append(key, []byte(r.Id)...)
}

func currentKey(r Record) []byte {
	return append([]byte(currPrefix), []byte(r.Id)...)
}

func notrecord(key []byte) bool {
	pfx1 := []byte(finishPrefix)
	pfx2 := []byte(currPrefix)
	if bytes.HasPrefix(key, pfx1) {
		return true
	}
	if bytes.HasPrefix(key, pfx2) {
		return true
	}
	return false
}

// Put writes r and updates its current/finished index entries.
func (d *DB) Put(r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	if r.done() {
		d.db.Delete(currentKey(r), nil)
	} else if err := d.db.Put(currentKey(r), []byte(r.Id), nil); err != nil {
		return err
	}

	if r.done() && r.Finished.Unix() >= 0 {
		if err := d.db.Put(finishKey(r), []byte(r.Id), nil); err != nil {
			return err
		}
	}

	return d.db.Put([]byte(r.Id), data, nil)
}

func (d *DB) Get(id string) (Record, error) {
	data, err := d.db.Get([]byte(id), nil)
	if err != nil {
		return Record{}, err
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Current returns every run still queued or running.
func (d *DB) Current() ([]Record, error) {
	it := d.db.NewIterator(util.BytesPrefix([]byte(currPrefix)), nil)
	defer it.Release()

	var ids []string
	for it.Next() {
		ids = append(ids, string(it.Value()))
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	return d.getAll(ids)
}

// Recent returns up to n of the most recently finished runs.
func (d *DB) Recent(n int) ([]Record, error) {
	it := d.db.NewIterator(util.BytesPrefix([]byte(finishPrefix)), nil)
	defer it.Release()

	var ids []string
	for it.Next() {
		ids = append(ids, string(it.Value()))
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	if len(ids) > n {
		ids = ids[len(ids)-n:]
	}
	return d.getAll(ids)
}

func (d *DB) getAll(ids []string) ([]Record, error) {
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		r, err := d.Get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Size returns the cumulative json-encoded size of every stored record.
func (d *DB) Size() (int64, error) {
	it := d.db.NewIterator(nil, nil)
	defer it.Release()

	var size int64
	for it.Next() {
		if notrecord(it.Key()) {
			continue
		}
		size += int64(len(it.Value()))
	}
	return size, it.Error()
}

// GC purges finished runs older than PurgeAge once the store exceeds Limit.
// It reports how many records were purged and how many remain; nremain is
// -1 when GC did not run because the store was under its size limit.
func (d *DB) GC() (npurged, nremain int, err error) {
	size, err := d.Size()
	if err != nil {
		return 0, -1, err
	}
	if d.Limit > 0 && size < d.Limit {
		return 0, -1, nil
	}

	it := d.db.NewIterator(nil, nil)
	defer it.Release()

	now := time.Now()
	for it.Next() {
		if notrecord(it.Key()) {
			continue
		}
		var r Record
		if err := json.Unmarshal(it.Value(), &r); err != nil {
			return npurged, -1, err
		}
		if r.done() && now.Sub(r.Finished) > d.PurgeAge {
			d.db.Delete(finishKey(r), nil)
			d.db.Delete(currentKey(r), nil)
			d.db.Delete([]byte(r.Id), nil)
			npurged++
		} else {
			nremain++
		}
	}
	return npurged, nremain, it.Error()
}
