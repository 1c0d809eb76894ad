package lessonpack

import (
	"context"
	"time"
)

type Instrument interface {
	ExerciseEmbedded(ctx context.Context, group string, size int64)
	GroupEmbedded(ctx context.Context, group string, size int64)
	ResourceMissing(ctx context.Context, kind string)
	CompileDuration(ctx context.Context, duration time.Duration, success bool)
}
