package span

import (
	"context"

	"go.scnd.dev/open/lessonpack"
)

type ContextKey struct {
	Name string
}

var (
	ContextKeyLessonpack = ContextKey{
		Name: "lessonpack",
	}
	ContextKeySpan = ContextKey{
		Name: "lessonpack.span",
	}
)

func NewContext(lp lessonpack.Lessonpack, ctx context.Context) context.Context {
	return context.WithValue(ctx, ContextKeyLessonpack, lp)
}

func FromContext(ctx context.Context) lessonpack.Lessonpack {
	lp, ok := ctx.Value(ContextKeyLessonpack).(lessonpack.Lessonpack)
	if !ok {
		return nil
	}

	return lp
}
