// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

// Package mutex provides a global mutex guarding the embedded
// sqlite registry, which does not tolerate concurrent writers.
package mutex

import "sync"

var m sync.RWMutex

// Lock locks the global mutex for writes.
func Lock() { m.Lock() }

// Unlock unlocks the global mutex.
func Unlock() { m.Unlock() }

// RLock locks the global mutex for reads.
func RLock() { m.RLock() }

// RUnlock undoes a single RLock call.
func RUnlock() { m.RUnlock() }
