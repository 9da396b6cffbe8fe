package usecase_test

import "context"

type noopLogger struct{}

func (noopLogger) Debugf(context.Context, string, ...any) {}
func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}
