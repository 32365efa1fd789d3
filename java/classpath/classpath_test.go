package classpath

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alampiss/buck/classfile"
	"github.com/alampiss/buck/classfile/classfiletest"
	"github.com/alampiss/buck/java"
)

func writeClass(t *testing.T, root string, c classfiletest.Class) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(c.Name)+".class")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, c.Bytes(), 0o644))
}

func TestEntryPath(t *testing.T) {
	assert.Equal(t, "java/util/Map$Entry.class", EntryPath("java.util.Map$Entry"))
	assert.Equal(t, "Top.class", EntryPath("Top"))
}

func TestDir(t *testing.T) {
	root := t.TempDir()
	writeClass(t, root, classfiletest.Class{Name: "com/example/Dep", Access: classfile.AccPublic})
	require.NoError(t, os.WriteFile(filepath.Join(root, "com", "example", "Broken.class"), []byte("nope"), 0o644))

	d := NewDir(root)
	m, ok := d.Find("com.example.Dep")
	require.True(t, ok)
	assert.Equal(t, "com.example.Dep", m.Name)
	assert.Equal(t, java.VisibilityPublic, m.Visibility)

	again, ok := d.Find("com.example.Dep")
	require.True(t, ok)
	assert.Same(t, m, again, "models are cached per lookup")

	_, ok = d.Find("com.example.Missing")
	assert.False(t, ok)
	_, ok = d.Find("com.example.Broken")
	assert.False(t, ok, "unreadable class files are skipped")
}

func TestJar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dep.jar")
	data := classfiletest.Jar([]classfiletest.Class{
		{Name: "lib/Outer", Inner: []classfile.InnerClass{{Inner: "lib/Outer$Inner", Outer: "lib/Outer", Name: "Inner", Access: classfile.AccPublic | classfile.AccStatic}}},
		{Name: "lib/Outer$Inner"},
	}, map[string][]byte{"META-INF/MANIFEST.MF": []byte("Manifest-Version: 1.0\n")})
	require.NoError(t, os.WriteFile(path, data, 0o644))

	jar, err := OpenJar(path)
	require.NoError(t, err)
	defer jar.Close()

	outer, ok := jar.Find("lib.Outer")
	require.True(t, ok)
	ic, ok := outer.MemberClass("Inner")
	require.True(t, ok)
	assert.Equal(t, "lib.Outer$Inner", ic.InnerClass)

	inner, ok := jar.Find(ic.InnerClass)
	require.True(t, ok)
	assert.Equal(t, "Inner", inner.SimpleName)
	assert.True(t, inner.IsStatic)

	_, ok = jar.Find("META-INF.MANIFEST")
	assert.False(t, ok)
}

func TestOpenJarError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jar")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))
	_, err := OpenJar(path)
	assert.ErrorContains(t, err, "bad.jar")
}

func TestOpenChainsEntriesBeforePlatform(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeClass(t, first, classfiletest.Class{Name: "p/A", Access: classfile.AccPublic})
	writeClass(t, second, classfiletest.Class{Name: "p/A", Access: classfile.AccFinal})
	writeClass(t, second, classfiletest.Class{Name: "java/lang/String", Access: classfile.AccPublic | classfile.AccFinal})

	jarPath := filepath.Join(t.TempDir(), "lib.jar")
	require.NoError(t, os.WriteFile(jarPath, classfiletest.Jar([]classfiletest.Class{{Name: "q/B"}}, nil), 0o644))

	cp, err := Open(first, filepath.Join(first, "missing"), "", second, jarPath)
	require.NoError(t, err)
	defer cp.Close()

	a, ok := cp.Find("p.A")
	require.True(t, ok)
	assert.Equal(t, java.VisibilityPublic, a.Visibility, "first entry wins")

	s, ok := cp.Find("java.lang.String")
	require.True(t, ok)
	assert.True(t, s.IsFinal, "classpath entries shadow the platform table")

	_, ok = cp.Find("q.B")
	assert.True(t, ok)

	_, ok = cp.Find("java.lang.Runnable")
	assert.True(t, ok, "platform table is consulted last")

	_, ok = cp.Find("nowhere.X")
	assert.False(t, ok)
}

func TestPlatform(t *testing.T) {
	obj, ok := Platform().Find("java.lang.Object")
	require.True(t, ok)
	assert.Equal(t, "", obj.SuperClass)

	exc, ok := Platform().Find("java.lang.RuntimeException")
	require.True(t, ok)
	assert.Equal(t, "java.lang.Exception", exc.SuperClass)
	assert.Equal(t, "RuntimeException", exc.SimpleName)

	ovr, ok := Platform().Find("java.lang.Override")
	require.True(t, ok)
	assert.Equal(t, java.ClassKindAnnotation, ovr.Kind)
}

func TestEmptyAndSplit(t *testing.T) {
	_, ok := Empty.Find("java.lang.Object")
	assert.False(t, ok)
	assert.Nil(t, Split(""))
	assert.Equal(t, []string{"a", "b"}, Split("a"+string(os.PathListSeparator)+"b"))
}
