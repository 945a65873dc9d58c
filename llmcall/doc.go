// Package llmcall wraps a remote generative-language call with failure
// classification, exponential-backoff retry, and a structured event stream.
//
// # Architecture
//
// The package has three layers:
//
//   - Failure taxonomy: typed errors with a shared CallError base, an
//     ErrorFromStatusCode mapping, and the IsRetryable default classification
//   - Caller: the retry state machine driving a RemoteCall through attempts,
//     emitting one event per attempt to an injected Sink
//   - GollmCaller: the production RemoteCall backed by gollm
//
// # Quick Start
//
//	caller := llmcall.NewCaller(llmcall.DefaultRetryPolicy(), nil, llmcall.SlogSink(logger))
//
//	text, err := caller.Execute(ctx, prompt, remote.Call)
//	if err != nil {
//	    var terminal *llmcall.TerminalError
//	    if errors.As(err, &terminal) {
//	        fmt.Println("gave up:", terminal.Reason)
//	    }
//	}
//
// The Caller performs no I/O of its own: the RemoteCall owns the transport
// and its timeout, and the Sink owns event delivery. Failures the RemoteCall
// reports are classified by the configured Classifier; only Retryable
// failures consume backoff waits, and a Fatal classification ends the loop
// on the spot.
package llmcall
