// Package authrpc describes the gRPC auth service shared by the client
// transport and the development stub server.
//
// Messages are google.protobuf.Struct values, so no generated code is
// needed. Field names mirror the HTTP API:
//
//	Login    {username, password}               -> {access_token, token_type, user{username, email, role}}
//	Register {username, email, password, role}  -> {message}
//	Me       {} + "authorization: Bearer <tok>" -> {username, email, role}
package authrpc
