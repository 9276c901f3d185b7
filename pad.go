// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

// pad occupies a full cache line to keep neighboring hot fields from
// false-sharing across cores.
type pad [64]byte

// padShort pads a field narrower than a cache line out to 64 bytes.
type padShort [64 - 8]byte

// roundToPow2 rounds n up to the next power of 2, minimum 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
