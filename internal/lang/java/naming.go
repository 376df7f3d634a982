package java

import "github.com/naviscope/naviscope/internal/fqn"

// NamingConvention returns the FQN parsing convention for Java's
// "a.b.C#member" syntax. Java's own grammar already matches
// fqn.StandardNamingConvention's "." container / "#" member split, so
// no Java-specific convention is needed.
func (p *Plugin) NamingConvention() fqn.NamingConvention {
	return fqn.StandardNamingConvention{}
}
