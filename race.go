// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package msq

// RaceEnabled is true when the race detector is active.
// Tests use it to scale down concurrent workloads.
//
// atomix ordered loads and stores are plain memory accesses on amd64, so the
// detector treats them as unsynchronized. Flags and links that one goroutine stores
// while another loads go through sync/atomic or channels.
const RaceEnabled = true
