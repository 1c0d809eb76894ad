package index

import (
	"go.scnd.dev/open/lessonpack"
	"go.scnd.dev/open/lessonpack/utility/resource"
	"go.scnd.dev/open/lessonpack/utility/table"
)

type App interface {
	Verbose() *bool
	Directory() *string
	Config() *Config
	Lessonpack() lessonpack.Lessonpack
	Path(name string) string
	Resolver() (resource.Resolver, error)
	Builder() (*table.Builder, error)
}
