// Package engine implements chat dispatch. The Engine validates a chat
// request, resolves its model to a provider adapter, checks the adapter's
// credential, sends exactly one upstream request and hands the open
// upstream stream back to the transport layer. It implements
// transport.ChatDispatcher.
package engine
