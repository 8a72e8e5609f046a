// Ipwhere answers two questions: what is my public IP address and
// where is this address located?
//
// Idea is simple: you ask a public geolocation service like ipinfo.io
// and it tells you the address it saw your request coming from, plus
// a city, a country and whatever else it knows. If that service is
// down, you ask the next one.
//
// Tool itself is organized into 3 logical parts:
//
// Ipwherelib
//
// ipwherelib is a main package of the application which contains
// Resolver struct and main logic related to lookups: walking an
// ordered provider list with a retry budget and keeping a single
// cached response on disk.
//
// Providers
//
// This package has a set of provider implementations which cover most
// of the public services. If you need ipdata.co, it is there, no need
// to do anything else.
//
// Main package
//
// A main package itself is an example of how to wire both ipwherelib
// and providers. But this is a full example which provides CLI.
// Resulting binary either prints a lookup to stdout or starts an HTTP
// server exposing the same pipeline.
package main
