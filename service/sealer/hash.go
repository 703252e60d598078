// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package sealer

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// maxNonceDigits is the length of the longest decimal representation of a
// 64-bit unsigned integer.
const maxNonceDigits = 20

// header returns the part of the hash input that stays the same for every
// nonce tried on a block: index, timestamp, transfers and previous hash.
func header(index uint64, timestamp int64, payload []byte, previousHash string) []byte {
	buf := make([]byte, 0, 2*maxNonceDigits+len(payload)+len(previousHash)+maxNonceDigits)
	buf = strconv.AppendUint(buf, index, 10)
	buf = strconv.AppendInt(buf, timestamp, 10)
	buf = append(buf, payload...)
	buf = append(buf, previousHash...)
	return buf
}

// digest appends the nonce to the header and returns the hex-encoded SHA-256
// of the result. The header slice needs enough spare capacity to hold the
// nonce, so that repeated calls do not allocate a new backing array.
func digest(header []byte, nonce uint64) string {
	input := strconv.AppendUint(header, nonce, 10)
	sum := sha256.Sum256(input)
	return hex.EncodeToString(sum[:])
}
