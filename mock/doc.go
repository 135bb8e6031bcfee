/*
Package mock provides mock implementations of the interfaces to interact with
a Sentinel secret access service.

For the mock Client, implementations provide a default implementation of the
service backed by the global request board, so it can closely imitate a real
service. Tests seed the board with per-resource decisions and introspect the
requests that were filed against it.
*/
package mock
