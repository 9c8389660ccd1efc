package tracker

import (
	"github.com/google/uuid"

	"github.com/hwerle/tagtrack/internal/device"
)

// DefaultCapacity is the number of projects a registry holds unless
// configured otherwise.
const DefaultCapacity = 10

// Registry is the ordered collection of registered projects, keyed by
// tag. It owns all Project state; callers mutate entries only through
// registry operations or the *Project handles it returns, and never
// retain those handles across a Remove.
type Registry struct {
	adminTag device.TagID
	capacity int
	projects []Project
}

// NewRegistry creates an empty registry. The admin tag is reserved and
// can never be registered. Non-positive capacities fall back to
// DefaultCapacity.
func NewRegistry(adminTag device.TagID, capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Registry{
		adminTag: adminTag,
		capacity: capacity,
		projects: make([]Project, 0, capacity),
	}
}

// AdminTag returns the reserved admin identifier.
func (r *Registry) AdminTag() device.TagID { return r.adminTag }

// Len returns the number of registered projects.
func (r *Registry) Len() int { return len(r.projects) }

// Capacity returns the registration limit.
func (r *Registry) Capacity() int { return r.capacity }

// Full reports whether another registration would be rejected.
func (r *Registry) Full() bool { return len(r.projects) >= r.capacity }

// Find returns the index of the project bound to tag. Linear scan; the
// registry is small by design.
func (r *Registry) Find(tag device.TagID) (int, bool) {
	for i := range r.projects {
		if r.projects[i].Tag == tag {
			return i, true
		}
	}
	return 0, false
}

// At returns the project at index i. The handle is invalidated by the
// next Remove.
func (r *Registry) At(i int) *Project {
	return &r.projects[i]
}

// Add registers a new project for tag, inactive with zero accumulated
// time, and returns its index. The registry is left unchanged on error.
func (r *Registry) Add(tag device.TagID, name string) (int, error) {
	if tag == r.adminTag {
		return 0, ErrAdminTagReserved
	}
	if _, ok := r.Find(tag); ok {
		return 0, ErrDuplicateTag
	}
	if r.Full() {
		return 0, ErrCapacityExceeded
	}
	r.projects = append(r.projects, Project{
		ID:   uuid.NewString(),
		Tag:  tag,
		Name: name,
	})
	return len(r.projects) - 1, nil
}

// Remove deletes the project at index i, shifting later entries down so
// relative order is preserved, and returns the removed entry. The
// caller pauses a running entry first when its time must be reported.
func (r *Registry) Remove(i int) Project {
	removed := r.projects[i]
	copy(r.projects[i:], r.projects[i+1:])
	r.projects = r.projects[:len(r.projects)-1]
	return removed
}

// RemoveByTag pauses and deletes the project bound to tag, returning
// the removed entry with its final total banked. Returns ErrTagNotFound
// when no project is bound to the tag.
func (r *Registry) RemoveByTag(tag device.TagID, now uint64) (Project, error) {
	i, ok := r.Find(tag)
	if !ok {
		return Project{}, ErrTagNotFound
	}
	r.projects[i].Pause(now)
	return r.Remove(i), nil
}

// DeactivateAll pauses every running project, banking its session time.
// Called before a Start to keep at most one project active.
func (r *Registry) DeactivateAll(now uint64) {
	for i := range r.projects {
		r.projects[i].Pause(now)
	}
}

// ActiveIndex returns the index of the running project, if any.
func (r *Registry) ActiveIndex() (int, bool) {
	for i := range r.projects {
		if r.projects[i].Active {
			return i, true
		}
	}
	return 0, false
}

// Snapshot returns a copy of all entries for read-only consumers.
func (r *Registry) Snapshot() []Project {
	out := make([]Project, len(r.projects))
	copy(out, r.projects)
	return out
}
