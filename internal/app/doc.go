// Package app contains the application logic behind the command line: it
// wires the protocol loader, generator and parser together, handles file
// input and output, and owns the application logger. It is decoupled from
// any specific entrypoint.
package app
