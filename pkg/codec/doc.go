// Package codec turns structured values into bytes for storage and back.
//
// Two codecs are provided and the stored bytes do not record which one made
// them, so readers must use the codec the writer used:
//
//   - JSON (goccy/go-json): EncodeJSON, DecodeJSON, DecodeJSONAs, DecodeJSONString.
//     Failures are returned as errors.ErrorTypeSerialization.
//   - Binary (encoding/gob): EncodeBinary, DecodeBinary. Failures are logged
//     and reported as a nil result or false, never as an error.
//
// Values stored through interface-typed fields must be registered with
// gob.Register before they can travel through the binary codec.
package codec
