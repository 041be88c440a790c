// Package toast dispatches short feedback notifications.
//
// A toast is emitted to an Emitter under EventName. On a live form the
// emitter is the websocket connection, which forwards it to the browser as a
// CustomEvent; on a plain page render a Flash collects toasts so the template
// can print them as banners.
//
// # Client-Side Handler
//
//	window.addEventListener("funday:toast", (e) => {
//	    const { level, message, title } = e.detail;
//	    showBanner(level, title, message);
//	});
//
// # Server-Side Usage
//
//	if out.Kind == rsvp.Failed {
//	    toast.Error(conn, out.Alert)
//	}
package toast
