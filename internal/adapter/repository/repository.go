// Package repository implements the record store on MongoDB. Repositories
// hold one collection each and expose keyed lookups and simple filters only.
package repository

import "errors"

var ErrNotFound = errors.New("repository: not found")
