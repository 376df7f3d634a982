package types

// NodeKind is the closed set of entity kinds a graph node can carry.
// Custom(name) escapes the set for build-tool or language constructs the
// core doesn't model directly (e.g. a Gradle "configuration").
type NodeKind struct {
	tag    nodeKindTag
	custom string
}

type nodeKindTag uint8

const (
	KindProject nodeKindTag = iota
	KindModule
	KindPackage
	KindClass
	KindInterface
	KindEnum
	KindAnnotation
	KindMethod
	KindConstructor
	KindField
	KindDependency
	KindTask
	KindPlugin
	kindCustom
)

var (
	Project     = NodeKind{tag: KindProject}
	Module      = NodeKind{tag: KindModule}
	Package     = NodeKind{tag: KindPackage}
	Class       = NodeKind{tag: KindClass}
	Interface   = NodeKind{tag: KindInterface}
	Enum        = NodeKind{tag: KindEnum}
	Annotation  = NodeKind{tag: KindAnnotation}
	Method      = NodeKind{tag: KindMethod}
	Constructor = NodeKind{tag: KindConstructor}
	Field       = NodeKind{tag: KindField}
	Dependency  = NodeKind{tag: KindDependency}
	Task        = NodeKind{tag: KindTask}
	Plugin      = NodeKind{tag: KindPlugin}
)

// Custom builds a NodeKind for a language-specific entity the closed enum
// doesn't name (e.g. "lambda", "record-component").
func Custom(name string) NodeKind {
	return NodeKind{tag: kindCustom, custom: name}
}

// IsMember reports whether this kind is a class/interface member
// (method, field, or constructor) -- used by the FQN manager's strict
// member probe (spec C1, §4.1).
func (k NodeKind) IsMember() bool {
	return k.tag == KindMethod || k.tag == KindField || k.tag == KindConstructor
}

// IsContainer reports whether this kind can own a "#"-separated member.
func (k NodeKind) IsContainer() bool {
	switch k.tag {
	case KindClass, KindInterface, KindEnum, KindAnnotation:
		return true
	default:
		return false
	}
}

func (k NodeKind) String() string {
	switch k.tag {
	case KindProject:
		return "project"
	case KindModule:
		return "module"
	case KindPackage:
		return "package"
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindAnnotation:
		return "annotation"
	case KindMethod:
		return "method"
	case KindConstructor:
		return "constructor"
	case KindField:
		return "field"
	case KindDependency:
		return "dependency"
	case KindTask:
		return "task"
	case KindPlugin:
		return "plugin"
	case kindCustom:
		return k.custom
	default:
		return "unknown"
	}
}

// ParseNodeKind parses the lowercase name produced by String() (used by
// the shell's --kind flag and the storage codec). Unknown names become a
// Custom kind rather than an error, matching spec C5's open extension
// point for language-specific kinds.
func ParseNodeKind(s string) NodeKind {
	switch s {
	case "project":
		return Project
	case "module":
		return Module
	case "package":
		return Package
	case "class":
		return Class
	case "interface":
		return Interface
	case "enum":
		return Enum
	case "annotation":
		return Annotation
	case "method":
		return Method
	case "constructor":
		return Constructor
	case "field":
		return Field
	case "dependency":
		return Dependency
	case "task":
		return Task
	case "plugin":
		return Plugin
	default:
		return Custom(s)
	}
}

// Equal reports whether two NodeKind values name the same kind.
func (k NodeKind) Equal(other NodeKind) bool {
	if k.tag != other.tag {
		return false
	}
	if k.tag == kindCustom {
		return k.custom == other.custom
	}
	return true
}

// StrictMemberKinds is the probe order used when a NamingConvention
// parses a dotted string and marks a segment as a strict member
// (introduced by "#").
var StrictMemberKinds = []NodeKind{Method, Field, Constructor}

// AmbiguousKindProbeOrder is the exact kind-probe order the FQN manager
// uses when a segment's kind is not known ahead of time. The order is
// load-bearing: it is replayed verbatim from the original implementation
// (see SPEC_FULL.md §A.3) rather than re-derived from prose.
var AmbiguousKindProbeOrder = []NodeKind{
	Package, Class, Interface, Method, Field, Module, Enum, Annotation, Constructor, Project,
}
