package classpath

import (
	"sync"

	"github.com/alampiss/buck/java"
)

type platformType struct {
	name       string
	kind       java.ClassKind
	super      string
	interfaces []string
}

// The types java.lang exposes to nearly every compilation unit. They let
// a pass resolve the implicit java.lang.* import and the usual supertypes
// when no JDK is on the classpath.
var platformTypes = []platformType{
	{"java.lang.Object", java.ClassKindClass, "", nil},
	{"java.lang.String", java.ClassKindClass, "java.lang.Object", []string{"java.io.Serializable", "java.lang.Comparable", "java.lang.CharSequence"}},
	{"java.lang.Class", java.ClassKindClass, "java.lang.Object", []string{"java.io.Serializable"}},
	{"java.lang.System", java.ClassKindClass, "java.lang.Object", nil},
	{"java.lang.Math", java.ClassKindClass, "java.lang.Object", nil},
	{"java.lang.Thread", java.ClassKindClass, "java.lang.Object", []string{"java.lang.Runnable"}},
	{"java.lang.StringBuilder", java.ClassKindClass, "java.lang.Object", []string{"java.io.Serializable", "java.lang.CharSequence"}},
	{"java.lang.StringBuffer", java.ClassKindClass, "java.lang.Object", []string{"java.io.Serializable", "java.lang.CharSequence"}},
	{"java.lang.Throwable", java.ClassKindClass, "java.lang.Object", []string{"java.io.Serializable"}},
	{"java.lang.Exception", java.ClassKindClass, "java.lang.Throwable", nil},
	{"java.lang.RuntimeException", java.ClassKindClass, "java.lang.Exception", nil},
	{"java.lang.IllegalArgumentException", java.ClassKindClass, "java.lang.RuntimeException", nil},
	{"java.lang.IllegalStateException", java.ClassKindClass, "java.lang.RuntimeException", nil},
	{"java.lang.UnsupportedOperationException", java.ClassKindClass, "java.lang.RuntimeException", nil},
	{"java.lang.Error", java.ClassKindClass, "java.lang.Throwable", nil},
	{"java.lang.Number", java.ClassKindClass, "java.lang.Object", []string{"java.io.Serializable"}},
	{"java.lang.Integer", java.ClassKindClass, "java.lang.Number", []string{"java.lang.Comparable"}},
	{"java.lang.Long", java.ClassKindClass, "java.lang.Number", []string{"java.lang.Comparable"}},
	{"java.lang.Short", java.ClassKindClass, "java.lang.Number", []string{"java.lang.Comparable"}},
	{"java.lang.Byte", java.ClassKindClass, "java.lang.Number", []string{"java.lang.Comparable"}},
	{"java.lang.Float", java.ClassKindClass, "java.lang.Number", []string{"java.lang.Comparable"}},
	{"java.lang.Double", java.ClassKindClass, "java.lang.Number", []string{"java.lang.Comparable"}},
	{"java.lang.Character", java.ClassKindClass, "java.lang.Object", []string{"java.io.Serializable", "java.lang.Comparable"}},
	{"java.lang.Boolean", java.ClassKindClass, "java.lang.Object", []string{"java.io.Serializable", "java.lang.Comparable"}},
	{"java.lang.Void", java.ClassKindClass, "java.lang.Object", nil},
	{"java.lang.Enum", java.ClassKindClass, "java.lang.Object", []string{"java.lang.Comparable", "java.io.Serializable"}},
	{"java.lang.Record", java.ClassKindClass, "java.lang.Object", nil},
	{"java.lang.Comparable", java.ClassKindInterface, "", nil},
	{"java.lang.CharSequence", java.ClassKindInterface, "", nil},
	{"java.lang.Iterable", java.ClassKindInterface, "", nil},
	{"java.lang.Cloneable", java.ClassKindInterface, "", nil},
	{"java.lang.Runnable", java.ClassKindInterface, "", nil},
	{"java.lang.AutoCloseable", java.ClassKindInterface, "", nil},
	{"java.lang.Override", java.ClassKindAnnotation, "", []string{"java.lang.annotation.Annotation"}},
	{"java.lang.Deprecated", java.ClassKindAnnotation, "", []string{"java.lang.annotation.Annotation"}},
	{"java.lang.SuppressWarnings", java.ClassKindAnnotation, "", []string{"java.lang.annotation.Annotation"}},
	{"java.lang.FunctionalInterface", java.ClassKindAnnotation, "", []string{"java.lang.annotation.Annotation"}},
	{"java.lang.annotation.Annotation", java.ClassKindInterface, "", nil},
	{"java.io.Serializable", java.ClassKindInterface, "", nil},
}

type platform map[string]*java.ClassModel

var (
	platformOnce  sync.Once
	platformTable platform
)

// Platform returns the built-in lookup. It is shared and read-only.
func Platform() Lookup {
	platformOnce.Do(func() {
		platformTable = make(platform, len(platformTypes))
		for _, t := range platformTypes {
			pkg, simple := java.SplitBinaryName(t.name)
			platformTable[t.name] = &java.ClassModel{
				Name:       t.name,
				SimpleName: simple,
				Package:    pkg,
				Kind:       t.kind,
				Visibility: java.VisibilityPublic,
				IsAbstract: t.kind != java.ClassKindClass,
				SuperClass: t.super,
				Interfaces: t.interfaces,
			}
		}
	})
	return platformTable
}

func (p platform) Find(binaryName string) (*java.ClassModel, bool) {
	m, ok := p[binaryName]
	return m, ok
}
