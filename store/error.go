package store

import (
	"fmt"

	"github.com/bulletin-network/bulletin/lib"
)

func ErrOpenDB(err error) lib.ErrorI {
	return lib.NewError(lib.CodeOpenDB, lib.StorageModule, fmt.Sprintf("openDB() failed with err: %s", err.Error()))
}

func ErrCloseDB(err error) lib.ErrorI {
	return lib.NewError(lib.CodeCloseDB, lib.StorageModule, fmt.Sprintf("closeDB() failed with err: %s", err.Error()))
}

func ErrStoreSet(err error) lib.ErrorI {
	return lib.NewError(lib.CodeStoreSet, lib.StorageModule, fmt.Sprintf("store.set() failed with err: %s", err.Error()))
}

func ErrStoreGet(err error) lib.ErrorI {
	return lib.NewError(lib.CodeStoreGet, lib.StorageModule, fmt.Sprintf("store.get() failed with err: %s", err.Error()))
}

func ErrStoreDelete(err error) lib.ErrorI {
	return lib.NewError(lib.CodeStoreDelete, lib.StorageModule, fmt.Sprintf("store.delete() failed with err: %s", err.Error()))
}

func ErrStoreIterate(err error) lib.ErrorI {
	return lib.NewError(lib.CodeStoreIterate, lib.StorageModule, fmt.Sprintf("store.iterate() failed with err: %s", err.Error()))
}

func ErrCorruptEntry(key []byte) lib.ErrorI {
	return lib.NewError(lib.CodeCorruptEntry, lib.StorageModule, fmt.Sprintf("store entry at key %s is corrupt", lib.BytesToString(key)))
}
