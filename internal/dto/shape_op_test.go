package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShapeOp_Variants(t *testing.T) {
	cases := []struct {
		name    string
		message string
		kind    dto.OpKind
		target  string
	}{
		{"create", `{"shape":{"id":"s1","type":"rect","x":10,"y":10,"width":100,"height":50}}`, dto.OpCreate, "s1"},
		{"update", `{"type":"update","shape":{"id":"s1","type":"circle","centerX":1,"centerY":2,"radius":3}}`, dto.OpUpdate, "s1"},
		{"delete", `{"type":"delete","id":"s9"}`, dto.OpDelete, "s9"},
		{"clear", `{"type":"clear"}`, dto.OpClear, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			op, err := dto.ParseShapeOp(tc.message)

			require.NoError(t, err)
			assert.Equal(t, tc.kind, op.Kind)
			assert.Equal(t, tc.target, op.TargetID())
		})
	}
}

func TestParseShapeOp_FallsBackForFreeText(t *testing.T) {
	for _, msg := range []string{
		"hello there",
		`{"text":"hi"}`,
		`{"type":"delete"}`,
		`{"type":"rotate","id":"x"}`,
		`{"shape":{"id":"a","type":"hexagon"}}`,
		`{"shape":{"type":"rect"}}`,
		`{"shape":null}`,
	} {
		_, err := dto.ParseShapeOp(msg)
		assert.ErrorIs(t, err, dto.ErrNotShapeOp, msg)
	}
}

func TestShapeOp_EncodeParseRoundTrip(t *testing.T) {
	style := domain.DefaultStyle()
	style.StrokeStyle = domain.StrokeDashed
	shape := domain.Shape{
		ID:    "p1",
		Style: style,
		Geom:  domain.Pencil{Points: []domain.Point{{X: 1, Y: 2}, {X: 3.5, Y: -4}}},
	}

	for _, op := range []dto.ShapeOp{
		{Kind: dto.OpCreate, Shape: shape},
		{Kind: dto.OpUpdate, Shape: shape},
		{Kind: dto.OpDelete, ID: "p1"},
		{Kind: dto.OpClear},
	} {
		encoded, err := op.Encode()
		require.NoError(t, err)

		decoded, err := dto.ParseShapeOp(encoded)

		require.NoError(t, err)
		assert.Equal(t, op, decoded)
	}
}

func TestServerMessage_DecodesEveryFrame(t *testing.T) {
	frames := []any{
		dto.NewUserList("7", []dto.Participant{{UserID: "1", Name: "ada"}}),
		dto.CursorDTO{Type: dto.TypeCursorMove, RoomID: "7", UserID: "1", Name: "ada", X: 4, Y: 5},
		dto.NewChat("7", `{"type":"clear"}`),
		dto.NewError("7", "shape not found"),
	}
	want := []dto.ServerMessage{
		{Type: dto.TypeUserList, RoomID: "7", Users: []dto.Participant{{UserID: "1", Name: "ada"}}},
		{Type: dto.TypeCursorMove, RoomID: "7", UserID: "1", Name: "ada", X: 4, Y: 5},
		{Type: dto.TypeChat, RoomID: "7", Message: `{"type":"clear"}`},
		{Type: dto.TypeError, RoomID: "7", Message: "shape not found"},
	}

	for i, f := range frames {
		b, err := json.Marshal(f)
		require.NoError(t, err)

		var got dto.ServerMessage
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, want[i], got)
	}
}

func TestNewUserList_EmptyRosterIsArray(t *testing.T) {
	b, err := json.Marshal(dto.NewUserList("1", nil))

	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"user_list","roomId":"1","users":[]}`, string(b))
}
