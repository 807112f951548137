package document

import (
	"github.com/linealign/linealign/internal/editop"
)

// undoStack holds the per-document undo and redo sequences. Pushing a new transaction clears the redo sequence; popping an empty stack is a no-op for the caller
// (ok=false), never an error.
type undoStack struct {
	undo []editop.Transaction
	redo []editop.Transaction
}

func (s *undoStack) push(tx editop.Transaction) {
	s.undo = append(s.undo, tx)
	s.redo = nil
}

func (s *undoStack) popUndo() (editop.Transaction, bool) {
	if len(s.undo) == 0 {
		return editop.Transaction{}, false
	}
	tx := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	return tx, true
}

func (s *undoStack) popRedo() (editop.Transaction, bool) {
	if len(s.redo) == 0 {
		return editop.Transaction{}, false
	}
	tx := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	return tx, true
}

// pushRedo records an undone transaction for redo (bypasses the redo-clearing of push).
func (s *undoStack) pushRedo(tx editop.Transaction) {
	s.redo = append(s.redo, tx)
}

// repush returns a redone transaction to the undo sequence without clearing redo.
func (s *undoStack) repush(tx editop.Transaction) {
	s.undo = append(s.undo, tx)
}

func (s *undoStack) clear() {
	s.undo = nil
	s.redo = nil
}
