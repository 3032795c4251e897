package handler

import (
	"context"
	"net"
	"testing"

	"github.com/fekuna/omnipos-jewellery-service/internal/auth"
	"github.com/fekuna/omnipos-jewellery-service/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func mustStruct(t *testing.T, m map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRateServer_ComputePrice(t *testing.T) {
	srv := NewRateServer(newTestRateUseCase(t), "INR", logger.NewNop())
	ctx := context.Background()

	testCases := []struct {
		name     string
		req      map[string]interface{}
		want     float64
		wantCode codes.Code
	}{
		{name: "explicit inputs", req: map[string]interface{}{"weight": 10, "rate": 6450, "making_charge": 500, "gst_percentage": 3}, want: 71585},
		{name: "string inputs", req: map[string]interface{}{"weight": "1", "rate": "6451.33", "making_charge": "100", "gst_percentage": "3"}, want: 6748},
		{name: "ledger defaults", req: map[string]interface{}{"weight": 10, "making_charge": 500}, want: 71585},
		{name: "zero weight", req: map[string]interface{}{"weight": 0, "making_charge": 500}, want: 0},
		{name: "missing weight", req: map[string]interface{}{"making_charge": 500}, wantCode: codes.InvalidArgument},
		{name: "negative rate", req: map[string]interface{}{"weight": 1, "rate": -1, "making_charge": 0, "gst_percentage": 3}, wantCode: codes.InvalidArgument},
		{name: "not a number", req: map[string]interface{}{"weight": "ten", "making_charge": 0}, wantCode: codes.InvalidArgument},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := srv.ComputePrice(ctx, mustStruct(t, tc.req))
			if tc.wantCode != codes.OK {
				if status.Code(err) != tc.wantCode {
					t.Fatalf("ComputePrice() code = %v want %v", status.Code(err), tc.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ComputePrice() error = %v", err)
			}
			if got := out.GetFields()["price"].GetNumberValue(); got != tc.want {
				t.Errorf("ComputePrice() price = %v want %v", got, tc.want)
			}
		})
	}
}

func TestRateServer_OverBufconn(t *testing.T) {
	const key = "operator-key"

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(grpc.UnaryInterceptor(auth.APIKeyInterceptor(key, MutatingMethods...)))
	RegisterRateServiceServer(s, NewRateServer(newTestRateUseCase(t), "INR", logger.NewNop()))
	go s.Serve(lis)
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	ctx := context.Background()
	req := mustStruct(t, map[string]interface{}{"gold_22k": "6500", "silver": "80"})

	out := &structpb.Struct{}
	err = conn.Invoke(ctx, MethodRecordRate, req, out)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("RecordRate without key code = %v want Unauthenticated", status.Code(err))
	}

	authed := metadata.AppendToOutgoingContext(ctx, "x-api-key", key)
	if err := conn.Invoke(authed, MethodRecordRate, req, out); err != nil {
		t.Fatalf("RecordRate with key error = %v", err)
	}
	if got := out.GetFields()["gold_22k"].GetStringValue(); got != "6500" {
		t.Errorf("RecordRate gold_22k = %q want 6500", got)
	}

	current := &structpb.Struct{}
	if err := conn.Invoke(ctx, MethodGetCurrentRate, &emptypb.Empty{}, current); err != nil {
		t.Fatalf("GetCurrentRate error = %v", err)
	}
	if got := current.GetFields()["gold_22k"].GetStringValue(); got != "6500" {
		t.Errorf("GetCurrentRate gold_22k = %q want 6500", got)
	}
	if current.GetFields()["defaulted"].GetBoolValue() {
		t.Errorf("GetCurrentRate defaulted = true after a recorded rate")
	}

	tax := &structpb.Struct{}
	if err := conn.Invoke(ctx, MethodGetCurrentTax, &emptypb.Empty{}, tax); err != nil {
		t.Fatalf("GetCurrentTax error = %v", err)
	}
	if !tax.GetFields()["defaulted"].GetBoolValue() || tax.GetFields()["gst_percentage"].GetStringValue() != "3" {
		t.Errorf("GetCurrentTax = %v want default 3", tax.AsMap())
	}

	bad := mustStruct(t, map[string]interface{}{"gst_percentage": "-2"})
	if err := conn.Invoke(authed, MethodRecordTax, bad, out); status.Code(err) != codes.InvalidArgument {
		t.Errorf("RecordTax(-2) code = %v want InvalidArgument", status.Code(err))
	}
}
