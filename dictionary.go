package family

import "slices"

// Reserved key names used by call sugar in the text form.
const (
	KeyFunction  = "function"
	KeyArguments = "arguments"
	KeyCommands  = "commands"
)

// keyTable is the key dictionary. The position of a name is its packed
// representation, so entries may only ever be appended.
//
// Indices 10 to 25 are the scene keys written by the exporters, spelling
// included.
var keyTable = []string{
	"_undefined",
	KeyFunction,
	KeyArguments,
	KeyCommands,
	"load",
	"width",
	"height",
	"depth",
	"pixels",
	"position",
	"rotation",
	"texcoord",
	"is_opaque",
	"is_smooth",
	"has_shadow",
	"material",
	"verticles",
	"indices",
	"color",
	"diffuse",
	"specular",
	"focus",
	"reflection",
	"refraction_factor",
	"refraction_ratio",
	"colormap",
	"nodes",
	"lights",
	"scale",
	"children",
	"name",
	"mesh",
	"meshes",
	"materials",
	"textures",
	"vertices",
	"normals",
	"tangents",
	"colors",
	"emission",
	"texture",
	"camera",
	"transform",
	"bones",
	"weights",
	"animations",
	"frames",
	"time",
	"format",
}

var keyIndex map[string]uint64

func init() {
	keyIndex = make(map[string]uint64, len(keyTable))
	for i, name := range keyTable {
		keyIndex[name] = uint64(i)
	}
}

// Keys returns a copy of the key dictionary in index order.
func Keys() []string {
	return slices.Clone(keyTable)
}

// IndexOf returns the dictionary index of name.
func IndexOf(name string) (uint64, bool) {
	i, ok := keyIndex[name]
	return i, ok
}

// NameAt returns the dictionary name stored at index.
func NameAt(index uint64) (string, bool) {
	if index >= uint64(len(keyTable)) {
		return "", false
	}
	return keyTable[index], true
}
