package store

import "errors"

// ErrNotInStore id ไม่อยู่ใน state ของ store (ไม่เรียก API)
var ErrNotInStore = errors.New("item not found in store")

// Result ผลของ optimistic mutation: Committed หรือ RolledBack เท่านั้น
type Result[T any] interface {
	Snapshot() []T
	isResult()
}

// Committed server ยืนยันแล้ว Items คือ state หลัง reconcile
type Committed[T any] struct {
	Items []T
}

func (r Committed[T]) Snapshot() []T { return r.Items }
func (Committed[T]) isResult()       {}

// RolledBack API ล้มเหลว state ถูกคืนค่าเดิมแล้ว
type RolledBack[T any] struct {
	Items []T
	Err   error
}

func (r RolledBack[T]) Snapshot() []T { return r.Items }
func (RolledBack[T]) isResult()       {}

// IsCommitted shortcut สำหรับผู้เรียกที่ไม่ต้อง type switch
func IsCommitted[T any](r Result[T]) bool {
	_, ok := r.(Committed[T])
	return ok
}
