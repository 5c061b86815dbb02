// SPDX-License-Identifier: MIT
package fls

// Extract returns a standalone copy of an image body, so the original
// and a patched body can be persisted under distinct identities without
// sharing backing storage with the container buffer.
func Extract(body []byte) []byte {
	out := make([]byte, len(body))
	copy(out, body)
	return out
}
