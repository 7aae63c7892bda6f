// Package repository implements the storage contract of the notes engine
// against the drop_note table.
package repository

import (
	"github.com/eugenemartinez/drop-note-api/pkg/database"
)

type Repo struct {
	db database.Tx
}

func New(db database.Tx) *Repo {
	return &Repo{db: db}
}
