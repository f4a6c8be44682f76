package stix

// Filter is a predicate over objects used by Store.Query.
type Filter func(*Object) bool

// TypeEquals matches objects with the given type tag.
func TypeEquals(typeTag string) Filter {
	return func(o *Object) bool {
		return o.Type == typeTag
	}
}

// FieldEquals matches objects whose custom metadata property equals the given
// value. For list-valued properties it matches list containment.
func FieldEquals(name, value string) Filter {
	return func(o *Object) bool {
		values, _ := o.ExtensionValues(name)
		for _, v := range values {
			if v == value {
				return true
			}
		}
		return false
	}
}

// Store is an immutable in-memory index over a set of STIX objects. Lookup is
// by STIX ID; queries iterate in load order, which is stable but carries no
// meaning.
type Store struct {
	order   []string
	objects map[string]*Object
}

// NewStore builds a store over the given objects.
func NewStore(objects ...*Object) *Store {
	s := &Store{objects: make(map[string]*Object, len(objects))}
	s.Load(objects)
	return s
}

// Load indexes the given objects. Objects with a duplicate ID replace the
// earlier entry without disturbing its position.
func (s *Store) Load(objects []*Object) {
	for _, obj := range objects {
		if _, exists := s.objects[obj.ID]; !exists {
			s.order = append(s.order, obj.ID)
		}
		s.objects[obj.ID] = obj
	}
}

// Get returns the object with the given STIX ID.
func (s *Store) Get(id string) (*Object, bool) {
	obj, ok := s.objects[id]
	return obj, ok
}

// Query returns every object matching all given filters, in load order.
// With no filters it returns the entire store.
func (s *Store) Query(filters ...Filter) []*Object {
	var result []*Object
	for _, id := range s.order {
		obj := s.objects[id]
		if matchesAll(obj, filters) {
			result = append(result, obj)
		}
	}
	return result
}

// Len returns the number of objects in the store.
func (s *Store) Len() int {
	return len(s.order)
}

func matchesAll(obj *Object, filters []Filter) bool {
	for _, filter := range filters {
		if !filter(obj) {
			return false
		}
	}
	return true
}
