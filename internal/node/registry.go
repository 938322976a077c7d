package node

// Registry guarda os nós por nome, na ordem de registro.
type Registry struct {
	nodes map[string]Node
	order []string
}

func NewRegistry(nodes ...Node) *Registry {
	r := &Registry{nodes: make(map[string]Node, len(nodes))}
	for _, n := range nodes {
		if _, dup := r.nodes[n.Name()]; dup {
			continue
		}
		r.nodes[n.Name()] = n
		r.order = append(r.order, n.Name())
	}
	return r
}

func (r *Registry) Get(name string) (Node, bool) {
	n, ok := r.nodes[name]
	return n, ok
}

func (r *Registry) List() []Node {
	out := make([]Node, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.nodes[name])
	}
	return out
}
