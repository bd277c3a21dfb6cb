package handler

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "calendar.v1.CalendarService"

// FullMethod returns the gRPC method path for name, e.g. "/calendar.v1.CalendarService/AddEvent".
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

type CalendarServiceServer interface {
	AddEvent(context.Context, *AddEventRequest) (*AddEventResponse, error)
	UpdateEvent(context.Context, *UpdateEventRequest) (*UpdateEventResponse, error)
	DeleteEvent(context.Context, *DeleteEventRequest) (*DeleteEventResponse, error)
	GetEvent(context.Context, *GetEventRequest) (*GetEventResponse, error)
	ListEvents(context.Context, *ListEventsRequest) (*ListEventsResponse, error)
	CalendarEvents(context.Context, *CalendarEventsRequest) (*CalendarEventsResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
}

var _ CalendarServiceServer = (*Handler)(nil)

var CalendarServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalendarServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("AddEvent", CalendarServiceServer.AddEvent),
		unary("UpdateEvent", CalendarServiceServer.UpdateEvent),
		unary("DeleteEvent", CalendarServiceServer.DeleteEvent),
		unary("GetEvent", CalendarServiceServer.GetEvent),
		unary("ListEvents", CalendarServiceServer.ListEvents),
		unary("CalendarEvents", CalendarServiceServer.CalendarEvents),
		unary("Login", CalendarServiceServer.Login),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterCalendarServiceServer(s grpc.ServiceRegistrar, srv CalendarServiceServer) {
	s.RegisterService(&CalendarServiceDesc, srv)
}

// unary builds the method descriptor the way protoc-gen-go-grpc would.
func unary[Req, Resp any](name string, call func(CalendarServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CalendarServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(CalendarServiceServer), ctx, req.(*Req))
			})
		},
	}
}

// CalendarServiceClient calls the service over a client connection using
// the JSON codec.
type CalendarServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCalendarServiceClient(cc grpc.ClientConnInterface) *CalendarServiceClient {
	return &CalendarServiceClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, name string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.ForceCodec(JSONCodec{})}, opts...)
	if err := cc.Invoke(ctx, FullMethod(name), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CalendarServiceClient) AddEvent(ctx context.Context, in *AddEventRequest, opts ...grpc.CallOption) (*AddEventResponse, error) {
	return invoke[AddEventRequest, AddEventResponse](ctx, c.cc, "AddEvent", in, opts)
}

func (c *CalendarServiceClient) UpdateEvent(ctx context.Context, in *UpdateEventRequest, opts ...grpc.CallOption) (*UpdateEventResponse, error) {
	return invoke[UpdateEventRequest, UpdateEventResponse](ctx, c.cc, "UpdateEvent", in, opts)
}

func (c *CalendarServiceClient) DeleteEvent(ctx context.Context, in *DeleteEventRequest, opts ...grpc.CallOption) (*DeleteEventResponse, error) {
	return invoke[DeleteEventRequest, DeleteEventResponse](ctx, c.cc, "DeleteEvent", in, opts)
}

func (c *CalendarServiceClient) GetEvent(ctx context.Context, in *GetEventRequest, opts ...grpc.CallOption) (*GetEventResponse, error) {
	return invoke[GetEventRequest, GetEventResponse](ctx, c.cc, "GetEvent", in, opts)
}

func (c *CalendarServiceClient) ListEvents(ctx context.Context, in *ListEventsRequest, opts ...grpc.CallOption) (*ListEventsResponse, error) {
	return invoke[ListEventsRequest, ListEventsResponse](ctx, c.cc, "ListEvents", in, opts)
}

func (c *CalendarServiceClient) CalendarEvents(ctx context.Context, in *CalendarEventsRequest, opts ...grpc.CallOption) (*CalendarEventsResponse, error) {
	return invoke[CalendarEventsRequest, CalendarEventsResponse](ctx, c.cc, "CalendarEvents", in, opts)
}

func (c *CalendarServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginRequest, LoginResponse](ctx, c.cc, "Login", in, opts)
}
