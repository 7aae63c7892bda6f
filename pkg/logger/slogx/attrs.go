package slogx

import "log/slog"

func Err(err error) slog.Attr {
	return slog.Any("err", err)
}

func NoteID(id string) slog.Attr {
	return slog.String("note_id", id)
}

func Username(name string) slog.Attr {
	return slog.String("username", name)
}
