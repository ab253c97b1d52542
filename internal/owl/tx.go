// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package owl

import (
	"errors"
	"fmt"
)

// ErrTxDone is returned by a Tx that was already committed or rolled back.
var ErrTxDone = errors.New("transaction already finished")

// Tx stages class declarations and applies them to an ontology together.
// Staged classes are visible through Lookup and may be used as
// superclasses of later declarations in the same Tx.
type Tx struct {
	o      *Ontology
	staged []Class
	byName map[string]int
	done   bool
}

// Begin starts a transaction against o.
func (o *Ontology) Begin() *Tx {
	return &Tx{o: o, byName: make(map[string]int)}
}

// Lookup finds a class among the staged declarations, then in the ontology.
func (tx *Tx) Lookup(name string) (Class, bool) {
	if i, ok := tx.byName[name]; ok {
		return tx.staged[i].clone(), true
	}
	return tx.o.Class(name)
}

// Declare stages c. It fails the same way DeclareClass would.
func (tx *Tx) Declare(c Class) error {
	if tx.done {
		return ErrTxDone
	}
	if err := validName(c.Name); err != nil {
		return err
	}
	if _, ok := tx.Lookup(c.Name); ok {
		return fmt.Errorf("%w: %s", ErrClassExists, c.Name)
	}
	for _, super := range c.Superclasses {
		if _, ok := tx.Lookup(super); !ok {
			return fmt.Errorf("%w: superclass %s of %s", ErrUnknownClass, super, c.Name)
		}
	}

	c = c.clone()
	if c.IRI == "" {
		c.IRI = tx.o.BaseIRI() + c.Name
	}
	tx.byName[c.Name] = len(tx.staged)
	tx.staged = append(tx.staged, c)
	return nil
}

// Staged returns the number of pending declarations.
func (tx *Tx) Staged() int { return len(tx.staged) }

// Commit applies the staged declarations in order. If one fails, the
// ones already applied are removed again and the ontology is unchanged.
func (tx *Tx) Commit() error {
	if tx.done {
		return ErrTxDone
	}
	tx.done = true

	for i, c := range tx.staged {
		if err := tx.o.DeclareClass(c); err != nil {
			for j := i - 1; j >= 0; j-- {
				tx.o.remove(tx.staged[j].Name)
			}
			return fmt.Errorf("committing %s: %w", c.Name, err)
		}
	}
	return nil
}

// Rollback discards the staged declarations.
func (tx *Tx) Rollback() {
	tx.done = true
	tx.staged = nil
	tx.byName = nil
}
