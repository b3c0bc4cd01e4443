// Package ids mints collision-free fresh names: cloned equation names for
// the allow pusher, fresh fixpoint variables and time parameters for the
// translator.
package ids

import "github.com/google/uuid"

// FreshProcessName builds a fresh name derived from base, suffixed with a
// UUID so repeated runs against the same Arena never collide.
func FreshProcessName(base string) string {
	return base + "_" + uuid.NewString()
}
