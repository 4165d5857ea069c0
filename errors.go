// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msq

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the queue was observed empty by Dequeue.
//
// The queue is unbounded, so Enqueue never returns ErrWouldBlock.
// ErrWouldBlock is a control flow signal, not a failure. Consumers should
// retry later (with backoff or yield) rather than propagating the error.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
//
// Example:
//
//	backoff := iox.Backoff{}
//	for {
//	    v, err := q.Dequeue()
//	    if err == nil {
//	        backoff.Reset()
//	        process(v)
//	        continue
//	    }
//	    if msq.IsWouldBlock(err) {
//	        backoff.Wait()
//	        continue
//	    }
//	    return err
//	}
var ErrWouldBlock = iox.ErrWouldBlock

// ErrInvalidArgument is returned by Enqueue when elem is nil.
// The queue never stores absent values; an empty item slot marks a
// consumed or sentinel node. The queue is left unchanged.
var ErrInvalidArgument = errors.New("msq: nil element")

// ErrUnsupported is returned by Peek and Iterator.
// The queue is left unchanged.
//
// This is an alias for [errors.ErrUnsupported].
var ErrUnsupported = errors.ErrUnsupported

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil, ErrWouldBlock, or ErrMore.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
