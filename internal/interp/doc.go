// Package interp executes marshal plans over dynamic instances. It is a
// second consumer of the same plans the code generators render and is used
// to check wire behaviour without compiling generated code.
package interp
