// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package event

import (
	"sync"
	"testing"
)

func TestListenReplacesSameOwner(t *testing.T) {
	var tgt Target
	owner := new(int)
	var a, b int
	tgt.Listen(owner, func() { a++ })
	tgt.Listen(owner, func() { b++ })
	if got := tgt.ListenerCount(); got != 1 {
		t.Fatalf("ListenerCount() = %d, want 1", got)
	}
	tgt.Dispatch()
	if a != 0 || b != 1 {
		t.Errorf("calls = (%d, %d), want (0, 1)", a, b)
	}
}

func TestUnlisten(t *testing.T) {
	var tgt Target
	o1, o2 := new(int), new(int)
	var calls []int
	tgt.Listen(o1, func() { calls = append(calls, 1) })
	tgt.Listen(o2, func() { calls = append(calls, 2) })

	if !tgt.Unlisten(o1) {
		t.Error("Unlisten(o1) = false, want true")
	}
	if tgt.Unlisten(o1) {
		t.Error("second Unlisten(o1) = true, want false")
	}
	tgt.Dispatch()
	if len(calls) != 1 || calls[0] != 2 {
		t.Errorf("calls = %v, want [2]", calls)
	}
	if !tgt.HasListeners() {
		t.Error("HasListeners() = false, want true")
	}
}

func TestUnlistenDuringDispatch(t *testing.T) {
	var tgt Target
	owner := new(int)
	calls := 0
	tgt.Listen(owner, func() {
		calls++
		tgt.Unlisten(owner)
	})
	tgt.Dispatch()
	tgt.Dispatch()
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestConcurrentListen(t *testing.T) {
	var tgt Target
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o := new(int)
			tgt.Listen(o, func() {})
			tgt.Dispatch()
		}()
	}
	wg.Wait()
	if got := tgt.ListenerCount(); got != 50 {
		t.Errorf("ListenerCount() = %d, want 50", got)
	}
}
