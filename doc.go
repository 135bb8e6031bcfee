/*
Package sentinel provides interfaces to request access-controlled secrets from
a Sentinel service. Secrets are not fetched directly - every retrieval is an
access request that the service approves, leaves pending, or denies according
to its policy.

The Vault interface provides an abstraction to request a secret and get back
its value without needing to deal with the request lifecycle directly.

The Client interface provides a convenience wrapper around the Sentinel REST
API. If the Vault does not fulfill your needs, you can make API calls directly
to the service instead.
*/
package sentinel
