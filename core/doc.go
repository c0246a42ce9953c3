// Package core provides the intrusive reference-counting substrate shared by
// every scenecore package:
//
//   - Object, the embeddable handle carrying an atomic strong count and a
//     once-only reclaim step
//   - Ref, the owning smart pointer whose slot is exchanged atomically
//   - Cast, checked conversion between capability types
//   - Retain / Release, nil-safe counting helpers
//
// Go reclaims memory on its own; what this package makes deterministic is the
// moment an object stops being usable. When the last Ref lets go, the object's
// OnOutOfScope hook (or the default Reclaim) runs exactly once, which is where
// GPU buffers, audio voices or cache slots are returned.
//
// Usage:
//
//	type Texture struct {
//	    core.Object
//	    handle uint32
//	}
//
//	func (t *Texture) Dispose() { freeTexture(t.handle) }
//
//	ref := core.Adopt(&Texture{handle: 7}) // count == 1
//	other := ref.Clone()                   // count == 2
//	other.Clear()                          // count == 1
//	ref.Clear()                            // count == 0 -> Dispose()
package core
