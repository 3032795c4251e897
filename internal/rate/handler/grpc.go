package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-jewellery-service/internal/model"
	"github.com/fekuna/omnipos-jewellery-service/internal/pricing"
	"github.com/fekuna/omnipos-jewellery-service/internal/rate"
	"github.com/fekuna/omnipos-jewellery-service/internal/rate/dto"
	"github.com/fekuna/omnipos-jewellery-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const RateServiceName = "omnipos.jewellery.v1.RateService"

const (
	MethodGetCurrentRate = "/" + RateServiceName + "/GetCurrentRate"
	MethodGetCurrentTax  = "/" + RateServiceName + "/GetCurrentTax"
	MethodRecordRate     = "/" + RateServiceName + "/RecordRate"
	MethodRecordTax      = "/" + RateServiceName + "/RecordTax"
	MethodComputePrice   = "/" + RateServiceName + "/ComputePrice"
)

// MutatingMethods are the methods that must carry the operator api key.
var MutatingMethods = []string{MethodRecordRate, MethodRecordTax}

// RateServiceServer is the gRPC surface of the rate ledger. Messages are
// google.protobuf.Struct so no generated stubs are needed.
type RateServiceServer interface {
	GetCurrentRate(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetCurrentTax(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	RecordRate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecordTax(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ComputePrice(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var _ RateServiceServer = (*RateServer)(nil)

type RateServer struct {
	uc       rate.UseCase
	currency string
	logger   logger.ZapLogger
}

func NewRateServer(uc rate.UseCase, currency string, log logger.ZapLogger) *RateServer {
	return &RateServer{uc: uc, currency: currency, logger: log}
}

func RegisterRateServiceServer(s grpc.ServiceRegistrar, srv RateServiceServer) {
	s.RegisterService(&RateServiceDesc, srv)
}

var RateServiceDesc = grpc.ServiceDesc{
	ServiceName: RateServiceName,
	HandlerType: (*RateServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetCurrentRate", Handler: unaryHandler(MethodGetCurrentRate, RateServiceServer.GetCurrentRate)},
		{MethodName: "GetCurrentTax", Handler: unaryHandler(MethodGetCurrentTax, RateServiceServer.GetCurrentTax)},
		{MethodName: "RecordRate", Handler: unaryHandler(MethodRecordRate, RateServiceServer.RecordRate)},
		{MethodName: "RecordTax", Handler: unaryHandler(MethodRecordTax, RateServiceServer.RecordTax)},
		{MethodName: "ComputePrice", Handler: unaryHandler(MethodComputePrice, RateServiceServer.ComputePrice)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "omnipos/jewellery/v1/rate.proto",
}

func unaryHandler[Req any](fullMethod string, call func(RateServiceServer, context.Context, *Req) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RateServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(RateServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func (s *RateServer) GetCurrentRate(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	r, err := s.uc.Resolve(ctx)
	if err != nil {
		return nil, s.toStatus(err, "failed to resolve rate")
	}
	return structpb.NewStruct(map[string]interface{}{
		"gold_22k":    r.Gold22K.String(),
		"silver":      r.Silver.String(),
		"recorded_at": formatTime(r.RateRecordedAt),
		"defaulted":   r.RateDefaulted,
	})
}

func (s *RateServer) GetCurrentTax(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	r, err := s.uc.Resolve(ctx)
	if err != nil {
		return nil, s.toStatus(err, "failed to resolve tax")
	}
	return structpb.NewStruct(map[string]interface{}{
		"gst_percentage": r.GSTPercent.String(),
		"recorded_at":    formatTime(r.TaxRecordedAt),
		"defaulted":      r.TaxDefaulted,
	})
}

func (s *RateServer) RecordRate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	snap, err := s.uc.RecordRate(ctx, &dto.RecordRateInput{
		Gold22K: field(req, "gold_22k"),
		Silver:  field(req, "silver"),
	})
	if err != nil {
		return nil, s.toStatus(err, "failed to record rate")
	}
	return snapshotStruct(snap)
}

func (s *RateServer) RecordTax(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	tax, err := s.uc.RecordTax(ctx, &dto.RecordTaxInput{Percentage: field(req, "gst_percentage")})
	if err != nil {
		return nil, s.toStatus(err, "failed to record tax")
	}
	return structpb.NewStruct(map[string]interface{}{
		"id":             tax.ID,
		"seq":            strconv.FormatInt(tax.Seq, 10),
		"gst_percentage": tax.Percentage.String(),
		"recorded_at":    formatTime(&tax.RecordedAt),
	})
}

// ComputePrice prices weight and making_charge. rate and gst_percentage are
// optional and default to the current ledger values.
func (s *RateServer) ComputePrice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	weight, err := pricing.ParseDecimal("weight", field(req, "weight"))
	if err != nil {
		return nil, s.toStatus(err, "")
	}
	making, err := pricing.ParseDecimal("making_charge", field(req, "making_charge"))
	if err != nil {
		return nil, s.toStatus(err, "")
	}

	rawRate, rawGST := field(req, "rate"), field(req, "gst_percentage")
	var ratePerUnit, gst decimal.Decimal
	if rawRate == "" || rawGST == "" {
		r, err := s.uc.Resolve(ctx)
		if err != nil {
			return nil, s.toStatus(err, "failed to resolve rates")
		}
		ratePerUnit, gst = r.Gold22K, r.GSTPercent
	}
	if rawRate != "" {
		if ratePerUnit, err = pricing.ParseDecimal("rate", rawRate); err != nil {
			return nil, s.toStatus(err, "")
		}
	}
	if rawGST != "" {
		if gst, err = pricing.ParseDecimal("gst_percentage", rawGST); err != nil {
			return nil, s.toStatus(err, "")
		}
	}

	q, err := pricing.Breakdown(weight, ratePerUnit, making, gst)
	if err != nil {
		return nil, s.toStatus(err, "")
	}
	return structpb.NewStruct(map[string]interface{}{
		"price":          float64(q.Price),
		"price_display":  pricing.FormatPrice(q.Price, s.currency),
		"rate":           q.Rate.String(),
		"gst_percentage": q.GSTPercent.String(),
		"subtotal":       q.Subtotal.String(),
		"tax_amount":     q.TaxAmount.String(),
		"final":          q.Final.String(),
	})
}

func snapshotStruct(snap *model.RateSnapshot) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"id":          snap.ID,
		"seq":         strconv.FormatInt(snap.Seq, 10),
		"gold_22k":    snap.Gold22K.String(),
		"silver":      snap.Silver.String(),
		"recorded_at": formatTime(&snap.RecordedAt),
	})
}

// field reads a decimal field sent either as a JSON number or a string.
func field(s *structpb.Struct, key string) string {
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64)
	case *structpb.Value_StringValue:
		return k.StringValue
	default:
		return ""
	}
}

// formatTime renders a nil time as an empty string.
func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func (s *RateServer) toStatus(err error, msg string) error {
	if errors.Is(err, pricing.ErrInvalidArgument) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	s.logger.Error(msg, zap.Error(err))
	return status.Error(codes.Internal, msg)
}
