// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msq

import "code.hybscloud.com/atomix"

// Stats holds operation counters of an instrumented queue.
//
// All methods are safe on a nil *Stats and do nothing, so the queue hot
// path only pays for a nil check when instrumentation is disabled.
type Stats struct {
	enqueues      atomix.Int64
	dequeues      atomix.Int64
	emptyPolls    atomix.Int64
	nextCASLost   atomix.Int64
	itemCASLost   atomix.Int64
	restarts      atomix.Int64
	tailHops      atomix.Int64
	headAdvances  atomix.Int64
	headHopStores atomix.Int64
}

// StatsSnapshot is a point-in-time copy of a queue's counters.
//
// Fields are read individually; a snapshot taken during concurrent
// operations is not an atomic cut across counters.
type StatsSnapshot struct {
	Enqueues      int64 // Successful Enqueue calls
	Dequeues      int64 // Poll/Dequeue calls that removed an element
	EmptyPolls    int64 // Poll/Dequeue calls that observed an empty queue
	NextCASLost   int64 // Enqueue link CAS races lost to another producer
	ItemCASLost   int64 // Item CAS races lost to another consumer
	Restarts      int64 // Traversals that hit a detached node
	TailHops      int64 // Tail hint advances
	HeadAdvances  int64 // Successful head CAS (one node detached each)
	HeadHopStores int64 // Head-hop links written by consumers
}

// Snapshot copies the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	if s == nil {
		return StatsSnapshot{}
	}
	return StatsSnapshot{
		Enqueues:      s.enqueues.Load(),
		Dequeues:      s.dequeues.Load(),
		EmptyPolls:    s.emptyPolls.Load(),
		NextCASLost:   s.nextCASLost.Load(),
		ItemCASLost:   s.itemCASLost.Load(),
		Restarts:      s.restarts.Load(),
		TailHops:      s.tailHops.Load(),
		HeadAdvances:  s.headAdvances.Load(),
		HeadHopStores: s.headHopStores.Load(),
	}
}

// Sub returns the counter deltas from prev to s.
func (s StatsSnapshot) Sub(prev StatsSnapshot) StatsSnapshot {
	return StatsSnapshot{
		Enqueues:      s.Enqueues - prev.Enqueues,
		Dequeues:      s.Dequeues - prev.Dequeues,
		EmptyPolls:    s.EmptyPolls - prev.EmptyPolls,
		NextCASLost:   s.NextCASLost - prev.NextCASLost,
		ItemCASLost:   s.ItemCASLost - prev.ItemCASLost,
		Restarts:      s.Restarts - prev.Restarts,
		TailHops:      s.TailHops - prev.TailHops,
		HeadAdvances:  s.HeadAdvances - prev.HeadAdvances,
		HeadHopStores: s.HeadHopStores - prev.HeadHopStores,
	}
}

func (s *Stats) inc(c *atomix.Int64) {
	c.AddAcqRel(1)
}

func (s *Stats) onEnqueue() {
	if s != nil {
		s.inc(&s.enqueues)
	}
}

func (s *Stats) onDequeue() {
	if s != nil {
		s.inc(&s.dequeues)
	}
}

func (s *Stats) onEmpty() {
	if s != nil {
		s.inc(&s.emptyPolls)
	}
}

func (s *Stats) onNextCASLost() {
	if s != nil {
		s.inc(&s.nextCASLost)
	}
}

func (s *Stats) onItemCASLost() {
	if s != nil {
		s.inc(&s.itemCASLost)
	}
}

func (s *Stats) onRestart() {
	if s != nil {
		s.inc(&s.restarts)
	}
}

func (s *Stats) onTailHop() {
	if s != nil {
		s.inc(&s.tailHops)
	}
}

func (s *Stats) onHeadAdvance() {
	if s != nil {
		s.inc(&s.headAdvances)
	}
}

func (s *Stats) onHeadHop() {
	if s != nil {
		s.inc(&s.headHopStores)
	}
}
