package store

import (
	"encoding/binary"
	"path/filepath"

	"github.com/bulletin-network/bulletin/lib"
	"github.com/cenkalti/backoff/v4"
	"github.com/dgraph-io/badger/v4"
)

const (
	maxOpenRetries = 5 // attempts before giving up on a locked or busy database
	heightKeyBytes = 8 // big-endian encoded height width
)

var (
	memberPrefix     = []byte("m/") // prefix designated for whitelist entries
	commitmentPrefix = []byte("c/") // prefix designated for (member, height) commitments

	_ lib.BulletinStoreI = &Store{} // enforce the BulletinStoreI interface
)

/*
	The Store persists the bulletin's durable state - the committee whitelist and the
	published commitments - in a single BadgerDB instance so a host can restart the
	bulletin without replaying the protocol. Pending approval rounds and their replies
	are deliberately not persisted: a restart abandons them exactly like a timeout.

	Keys are prefix-partitioned ('m/' whitelist, 'c/' commitments); commitment keys
	order by member then height, with heights encoded big-endian and sign-flipped so
	lexicographic iteration matches numeric order even for negative heights.
*/

type Store struct {
	db  *badger.DB  // underlying database
	log lib.LoggerI // logger
}

// New() opens a Store either in memory or at the configured data directory path
func New(config lib.Config, log lib.LoggerI) (*Store, lib.ErrorI) {
	opts := badger.DefaultOptions(filepath.Join(config.DataDirPath, config.DBName))
	if config.StoreConfig.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	// badger's own logger is noisy; the bulletin logger reports what matters
	opts = opts.WithLogger(nil)
	// an unclean shutdown can leave the directory briefly locked; retry with backoff
	var db *badger.DB
	if err := backoff.Retry(func() (e error) {
		db, e = badger.Open(opts)
		return
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxOpenRetries)); err != nil {
		return nil, ErrOpenDB(err)
	}
	return &Store{db: db, log: log}, nil
}

// PutMember() persists a whitelist entry
func (s *Store) PutMember(member lib.MemberID) lib.ErrorI {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(memberKey(member), nil)
	})
	if err != nil {
		return ErrStoreSet(err)
	}
	return nil
}

// DeleteMember() removes a whitelist entry and every commitment the member published
func (s *Store) DeleteMember(member lib.MemberID) lib.ErrorI {
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(memberKey(member)); err != nil {
			return err
		}
		// collect the member's commitment keys before deleting; badger forbids
		// deletes under an open iterator
		prefix := lib.Append(commitmentPrefix, member.Bytes())
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		var keys [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ErrStoreDelete(err)
	}
	return nil
}

// PutCommitment() persists a committed (member, height) pair
func (s *Store) PutCommitment(member lib.MemberID, height int64, c *lib.Commitment) lib.ErrorI {
	value, err := lib.MarshalJSON(c)
	if err != nil {
		return err
	}
	if e := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(commitmentKey(member, height), value)
	}); e != nil {
		return ErrStoreSet(e)
	}
	return nil
}

// GetCommitment() loads a single commitment; nil if the coordinate was never committed
func (s *Store) GetCommitment(member lib.MemberID, height int64) (commitment *lib.Commitment, err lib.ErrorI) {
	e := s.db.View(func(txn *badger.Txn) error {
		item, er := txn.Get(commitmentKey(member, height))
		if er != nil {
			if er == badger.ErrKeyNotFound {
				return nil
			}
			return er
		}
		value, er := item.ValueCopy(nil)
		if er != nil {
			return er
		}
		c := new(lib.Commitment)
		if err = lib.UnmarshalJSON(value, c); err != nil {
			return err
		}
		commitment = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	if e != nil {
		return nil, ErrStoreGet(e)
	}
	return
}

// ForEachMember() iterates the persisted whitelist entries
func (s *Store) ForEachMember(fn func(member lib.MemberID) lib.ErrorI) lib.ErrorI {
	var err lib.ErrorI
	e := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: memberPrefix})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			member, er := memberFromKey(key, memberPrefix)
			if er != nil {
				err = er
				return err
			}
			if err = fn(member); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if e != nil {
		return ErrStoreIterate(e)
	}
	return nil
}

// ForEachCommitment() iterates every persisted commitment, ordered by member then height
func (s *Store) ForEachCommitment(fn func(member lib.MemberID, height int64, c *lib.Commitment) lib.ErrorI) lib.ErrorI {
	var err lib.ErrorI
	e := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: commitmentPrefix, PrefetchValues: true})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			member, height, er := coordinateFromKey(key)
			if er != nil {
				err = er
				return err
			}
			value, valueErr := it.Item().ValueCopy(nil)
			if valueErr != nil {
				return valueErr
			}
			c := new(lib.Commitment)
			if err = lib.UnmarshalJSON(value, c); err != nil {
				return err
			}
			if err = fn(member, height, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if e != nil {
		return ErrStoreIterate(e)
	}
	return nil
}

// Close() releases the underlying database
func (s *Store) Close() lib.ErrorI {
	if err := s.db.Close(); err != nil {
		return ErrCloseDB(err)
	}
	return nil
}

// KEY ENCODING BELOW

// memberKey() is 'm/' ++ member
func memberKey(member lib.MemberID) []byte {
	return lib.Append(memberPrefix, member.Bytes())
}

// commitmentKey() is 'c/' ++ member ++ bigEndian(height)
func commitmentKey(member lib.MemberID, height int64) []byte {
	return lib.Append(commitmentPrefix, lib.Append(member.Bytes(), encodeHeight(height)))
}

// encodeHeight() flips the sign bit so lexicographic key order matches numeric height order
func encodeHeight(height int64) []byte {
	bz := make([]byte, heightKeyBytes)
	binary.BigEndian.PutUint64(bz, uint64(height)^(1<<63))
	return bz
}

// decodeHeight() reverses encodeHeight()
func decodeHeight(bz []byte) int64 {
	return int64(binary.BigEndian.Uint64(bz) ^ (1 << 63))
}

// memberFromKey() recovers the MemberID from a prefixed key
func memberFromKey(key, prefix []byte) (lib.MemberID, lib.ErrorI) {
	if len(key) != len(prefix)+lib.MemberIDSize {
		return lib.MemberID{}, ErrCorruptEntry(key)
	}
	return lib.NewMemberIDFromBytes(key[len(prefix):])
}

// coordinateFromKey() recovers the (member, height) coordinate from a commitment key
func coordinateFromKey(key []byte) (member lib.MemberID, height int64, err lib.ErrorI) {
	if len(key) != len(commitmentPrefix)+lib.MemberIDSize+heightKeyBytes {
		return member, 0, ErrCorruptEntry(key)
	}
	member, err = lib.NewMemberIDFromBytes(key[len(commitmentPrefix) : len(commitmentPrefix)+lib.MemberIDSize])
	if err != nil {
		return
	}
	height = decodeHeight(key[len(commitmentPrefix)+lib.MemberIDSize:])
	return
}
