/*
 * Copyright 2026 The mempool Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package mempool

// RoundUp returns the smallest multiple of align that is at least max(bytes, 1).
func (l *layout) RoundUp(bytes int) int {
	if bytes <= 0 {
		bytes = 1
	}
	return (bytes + l.align - 1) &^ (l.align - 1)
}

// indexOf maps a request of at most threshold bytes to its size class.
func (l *layout) indexOf(bytes int) int {
	return l.RoundUp(bytes)/l.align - 1
}

func (l *layout) classSize(class int) int {
	return (class + 1) * l.align
}
