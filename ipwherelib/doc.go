// ipwherelib answers a simple question: what is the public IP address
// of this machine and where is it located?
//
// It does that by querying third-party geolocation HTTP services and
// normalizing their replies into a single LookupResponse record. The
// interesting part is the Resolver: it takes an ordered list of
// provider kinds, walks them one by one with a retry budget, and can
// serve a fresh cached answer instead of touching the network at all.
//
// Providers are pluggable. A provider is anything implementing the
// Provider interface: it names an endpoint URL and parses the reply
// body into the canonical record. Concrete integrations live in the
// providers package of this repository.
package ipwherelib
