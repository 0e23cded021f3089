// Package ethfoliov1 declares the ethfolio.v1.PortfolioService gRPC API: its messages,
// service descriptor, server registration and client.
package ethfoliov1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "ethfolio.v1.PortfolioService"

const (
	PortfolioService_RecordTransaction_FullMethodName = "/" + ServiceName + "/RecordTransaction"
	PortfolioService_ListTransactions_FullMethodName  = "/" + ServiceName + "/ListTransactions"
	PortfolioService_GetOverview_FullMethodName       = "/" + ServiceName + "/GetOverview"
	PortfolioService_GetDailySeries_FullMethodName    = "/" + ServiceName + "/GetDailySeries"
	PortfolioService_GetPrice_FullMethodName          = "/" + ServiceName + "/GetPrice"
	PortfolioService_RefreshPrice_FullMethodName      = "/" + ServiceName + "/RefreshPrice"
	PortfolioService_ListNews_FullMethodName          = "/" + ServiceName + "/ListNews"
)

// PortfolioServiceServer is the server API for PortfolioService
type PortfolioServiceServer interface {
	RecordTransaction(context.Context, *RecordTransactionRequest) (*RecordTransactionResponse, error)
	ListTransactions(context.Context, *ListTransactionsRequest) (*ListTransactionsResponse, error)
	GetOverview(context.Context, *GetOverviewRequest) (*GetOverviewResponse, error)
	GetDailySeries(context.Context, *GetDailySeriesRequest) (*GetDailySeriesResponse, error)
	GetPrice(context.Context, *GetPriceRequest) (*GetPriceResponse, error)
	RefreshPrice(context.Context, *RefreshPriceRequest) (*RefreshPriceResponse, error)
	ListNews(context.Context, *ListNewsRequest) (*ListNewsResponse, error)
}

// UnimplementedPortfolioServiceServer can be embedded to have forward compatible implementations
type UnimplementedPortfolioServiceServer struct{}

func (UnimplementedPortfolioServiceServer) RecordTransaction(context.Context, *RecordTransactionRequest) (*RecordTransactionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RecordTransaction not implemented")
}
func (UnimplementedPortfolioServiceServer) ListTransactions(context.Context, *ListTransactionsRequest) (*ListTransactionsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListTransactions not implemented")
}
func (UnimplementedPortfolioServiceServer) GetOverview(context.Context, *GetOverviewRequest) (*GetOverviewResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetOverview not implemented")
}
func (UnimplementedPortfolioServiceServer) GetDailySeries(context.Context, *GetDailySeriesRequest) (*GetDailySeriesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDailySeries not implemented")
}
func (UnimplementedPortfolioServiceServer) GetPrice(context.Context, *GetPriceRequest) (*GetPriceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetPrice not implemented")
}
func (UnimplementedPortfolioServiceServer) RefreshPrice(context.Context, *RefreshPriceRequest) (*RefreshPriceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RefreshPrice not implemented")
}
func (UnimplementedPortfolioServiceServer) ListNews(context.Context, *ListNewsRequest) (*ListNewsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListNews not implemented")
}

// RegisterPortfolioServiceServer registers srv on s
func RegisterPortfolioServiceServer(s grpc.ServiceRegistrar, srv PortfolioServiceServer) {
	s.RegisterService(&PortfolioService_ServiceDesc, srv)
}

// unaryHandler adapts a typed method to grpc.MethodHandler
func unaryHandler[Req, Resp any](fullMethod string, call func(PortfolioServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PortfolioServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PortfolioServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// PortfolioService_ServiceDesc is the grpc.ServiceDesc for PortfolioService
var PortfolioService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PortfolioServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RecordTransaction",
			Handler:    unaryHandler(PortfolioService_RecordTransaction_FullMethodName, PortfolioServiceServer.RecordTransaction),
		},
		{
			MethodName: "ListTransactions",
			Handler:    unaryHandler(PortfolioService_ListTransactions_FullMethodName, PortfolioServiceServer.ListTransactions),
		},
		{
			MethodName: "GetOverview",
			Handler:    unaryHandler(PortfolioService_GetOverview_FullMethodName, PortfolioServiceServer.GetOverview),
		},
		{
			MethodName: "GetDailySeries",
			Handler:    unaryHandler(PortfolioService_GetDailySeries_FullMethodName, PortfolioServiceServer.GetDailySeries),
		},
		{
			MethodName: "GetPrice",
			Handler:    unaryHandler(PortfolioService_GetPrice_FullMethodName, PortfolioServiceServer.GetPrice),
		},
		{
			MethodName: "RefreshPrice",
			Handler:    unaryHandler(PortfolioService_RefreshPrice_FullMethodName, PortfolioServiceServer.RefreshPrice),
		},
		{
			MethodName: "ListNews",
			Handler:    unaryHandler(PortfolioService_ListNews_FullMethodName, PortfolioServiceServer.ListNews),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ethfolio/v1/portfolio.proto",
}

// PortfolioServiceClient is the client API for PortfolioService
type PortfolioServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPortfolioServiceClient creates a client that sends every call with the JSON codec
func NewPortfolioServiceClient(cc grpc.ClientConnInterface) *PortfolioServiceClient {
	return &PortfolioServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PortfolioServiceClient) RecordTransaction(ctx context.Context, in *RecordTransactionRequest, opts ...grpc.CallOption) (*RecordTransactionResponse, error) {
	return invoke[RecordTransactionResponse](ctx, c.cc, PortfolioService_RecordTransaction_FullMethodName, in, opts)
}

func (c *PortfolioServiceClient) ListTransactions(ctx context.Context, in *ListTransactionsRequest, opts ...grpc.CallOption) (*ListTransactionsResponse, error) {
	return invoke[ListTransactionsResponse](ctx, c.cc, PortfolioService_ListTransactions_FullMethodName, in, opts)
}

func (c *PortfolioServiceClient) GetOverview(ctx context.Context, in *GetOverviewRequest, opts ...grpc.CallOption) (*GetOverviewResponse, error) {
	return invoke[GetOverviewResponse](ctx, c.cc, PortfolioService_GetOverview_FullMethodName, in, opts)
}

func (c *PortfolioServiceClient) GetDailySeries(ctx context.Context, in *GetDailySeriesRequest, opts ...grpc.CallOption) (*GetDailySeriesResponse, error) {
	return invoke[GetDailySeriesResponse](ctx, c.cc, PortfolioService_GetDailySeries_FullMethodName, in, opts)
}

func (c *PortfolioServiceClient) GetPrice(ctx context.Context, in *GetPriceRequest, opts ...grpc.CallOption) (*GetPriceResponse, error) {
	return invoke[GetPriceResponse](ctx, c.cc, PortfolioService_GetPrice_FullMethodName, in, opts)
}

func (c *PortfolioServiceClient) RefreshPrice(ctx context.Context, in *RefreshPriceRequest, opts ...grpc.CallOption) (*RefreshPriceResponse, error) {
	return invoke[RefreshPriceResponse](ctx, c.cc, PortfolioService_RefreshPrice_FullMethodName, in, opts)
}

func (c *PortfolioServiceClient) ListNews(ctx context.Context, in *ListNewsRequest, opts ...grpc.CallOption) (*ListNewsResponse, error) {
	return invoke[ListNewsResponse](ctx, c.cc, PortfolioService_ListNews_FullMethodName, in, opts)
}
