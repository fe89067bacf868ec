// Package protobuf encodes resolver answers as google.protobuf.Struct
// messages and writes them in the supported output formats.
package protobuf

import (
	"encoding/json"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Format names an output encoding.
type Format string

const (
	// FormatJSON is multiline protojson.
	FormatJSON = Format("json")
	// FormatPBText is the protobuf text format.
	FormatPBText = Format("pbtext")
	// FormatDelimited is a stream of varint length-prefixed binary messages.
	FormatDelimited = Format("delimited")
)

type marshaler func(m protoreflect.ProtoMessage) ([]byte, error)

func marshalerForFormat(format Format) (marshaler, error) {
	switch format {
	case FormatJSON:
		return protojson.MarshalOptions{
			Multiline:       true,
			Indent:          "  ",
			EmitUnpopulated: false,
		}.Marshal, nil
	case FormatPBText:
		return prototext.MarshalOptions{Multiline: true}.Marshal, nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// WriteTo writes one message to out in the given format.
func WriteTo(format Format, message protoreflect.ProtoMessage, out io.Writer) error {
	if format == FormatDelimited {
		return WriteDelimitedTo(message, out)
	}
	marshal, err := marshalerForFormat(format)
	if err != nil {
		return err
	}
	data, err := marshal(message)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if _, err := io.WriteString(out, "\n"); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// StableJSON renders message as indented JSON with sorted keys, independent
// of protojson's randomized whitespace.
func StableJSON(message protoreflect.ProtoMessage) (string, error) {
	data, err := protojson.Marshal(message)
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return "", fmt.Errorf("json unmarshal: %w", err)
	}
	data2, err := json.MarshalIndent(v, "", " ")
	if err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}
	return string(data2), nil
}

// WriteDelimitedTo writes a length-delimited protobuf message to a writer
func WriteDelimitedTo(msg proto.Message, w io.Writer) error {
	data, err := proto.Marshal(msg)
	if err != nil {
		return err
	}

	sizeBytes := protowire.AppendVarint(nil, uint64(len(data)))
	if _, err := w.Write(sizeBytes); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}

	return nil
}

// ReadDelimitedFrom reads a length-delimited protobuf message from a reader
func ReadDelimitedFrom(msg proto.Message, r io.Reader) error {
	var sizeBuf [binaryMaxVarintLen]byte
	var size uint64
	for i := 0; ; i++ {
		if i == len(sizeBuf) {
			return io.ErrUnexpectedEOF
		}
		if _, err := io.ReadFull(r, sizeBuf[i:i+1]); err != nil {
			if i > 0 && err == io.EOF {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		if sizeBuf[i] < 0x80 {
			v, n := protowire.ConsumeVarint(sizeBuf[:i+1])
			if n < 0 {
				return protowire.ParseError(n)
			}
			size = v
			break
		}
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return err
	}
	return proto.Unmarshal(data, msg)
}

const binaryMaxVarintLen = 10
