package objectstore

import "clipcap/internal/ports"

// Provider is the object access contract used across API and Worker.
// It is an alias to ports.ObjectStore to keep call-sites simple.
type Provider = ports.ObjectStore
