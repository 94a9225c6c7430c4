package assemble

// BaseCSS is the fixed-layout comic-page stylesheet shared by every
// page, grounded on buildEPUB's style.css writer in original_source.
func BaseCSS(panelView bool) []byte {
	css := `@page {
margin: 0;
}
body {
display: block;
margin: 0;
padding: 0;
}
`
	if panelView {
		css += `#PV {
position: absolute;
width: 100%;
height: 100%;
top: 0;
left: 0;
}
#PV-T {
top: 0;
width: 100%;
height: 50%;
}
#PV-B {
bottom: 0;
width: 100%;
height: 50%;
}
#PV-L {
left: 0;
width: 49.5%;
height: 100%;
float: left;
}
#PV-R {
right: 0;
width: 49.5%;
height: 100%;
float: right;
}
#PV-TL {
width: 49.5%;
height: 49.5%;
}
#PV-TR {
width: 49.5%;
height: 49.5%;
}
#PV-BL {
width: 49.5%;
height: 49.5%;
}
#PV-BR {
width: 49.5%;
height: 49.5%;
}
.PV-P {
display: none;
}
`
	}
	return []byte(css)
}
