package http

type IHttpClient interface {
	Request(method, path string, params []KeyValue, body interface{}, header []KeyValue) (error, int, []byte)
	Get(path string, params []KeyValue, body interface{}, header []KeyValue) (error, int, []byte)
	Post(path string, params []KeyValue, body interface{}, header []KeyValue) (error, int, []byte)
	Delete(path string, params []KeyValue, body interface{}, header []KeyValue) (error, int, []byte)
	Put(path string, params []KeyValue, body interface{}, header []KeyValue) (error, int, []byte)
}
