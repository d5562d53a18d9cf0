package command

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/semmy-space/credstore/internal/errors"
	"github.com/semmy-space/credstore/internal/keystore"
)

// maxLine bounds one request line; secrets travel as arrays of numbers,
// roughly four bytes of JSON per payload byte. Tests lower it.
var maxLine = 16 << 20

// Serve reads one JSON Call per line from r and writes one JSON Reply per
// line to w, in order, until r is exhausted or ctx is done. A line that
// is malformed or longer than maxLine gets an InvalidArgument reply and the
// session continues.
func Serve(ctx context.Context, d *keystore.Dispatcher, r io.Reader, w io.Writer, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	br := bufio.NewReaderSize(r, 64*1024)
	enc := json.NewEncoder(w)

	for {
		line, tooLong, err := readLine(br, maxLine)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(line) == 0 && !tooLong {
			continue
		}

		var (
			reply Reply
			call  Call
		)
		switch {
		case tooLong:
			reply = Reply{Error: errorReply(errors.Newf(errors.CodeInvalidArgument, "call exceeds %d bytes", maxLine))}
		default:
			if err := json.Unmarshal(line, &call); err != nil {
				reply = Reply{Error: errorReply(errors.Wrap(errors.CodeInvalidArgument, "malformed call", err))}
			} else {
				reply = Handle(d, call)
			}
		}
		log.Debug("served call", "cmd", call.Cmd, "ok", reply.OK, "bytes", len(line))

		if err := enc.Encode(reply); err != nil {
			return err
		}
	}
}

// readLine returns the next newline-terminated line without its line
// ending. A line longer than limit is consumed in full and reported with
// tooLong set and no content.
func readLine(r *bufio.Reader, limit int) (line []byte, tooLong bool, err error) {
	read := false
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			if err == io.EOF && read {
				return line, tooLong, nil
			}
			return nil, false, err
		}
		read = true
		if !tooLong {
			if len(line)+len(chunk) > limit {
				tooLong, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}
		if !isPrefix {
			return line, tooLong, nil
		}
	}
}
