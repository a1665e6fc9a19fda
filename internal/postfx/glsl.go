package postfx

import (
	"fmt"
	"strings"

	"diorama/internal/material"
)

// Uniform names used by the raylib side.
const (
	UniformDepthTexture = "depthTexture"
	UniformFocusDepth   = "focusDepth"
	UniformFocalLength  = "focalLength"
	UniformBokehScale   = "bokehScale"
	UniformTexelSize    = "texelSize"
	UniformDepthRange   = "depthRange"
	UniformOffset       = "offset"
	UniformDarkness     = "darkness"
)

const depthVertexSource = `#version 330

in vec3 vertexPosition;
in vec2 vertexTexCoord;

uniform mat4 mvp;
uniform mat4 matModel;
uniform mat4 matView;

out vec2 fragTexCoord;
out float viewDepth;

void main() {
    fragTexCoord = vertexTexCoord;
    vec4 viewPos = matView * matModel * vec4(vertexPosition, 1.0);
    viewDepth = -viewPos.z;
    gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`

const depthFragmentTemplate = `#version 330

in vec2 fragTexCoord;
in float viewDepth;

uniform sampler2D texture0;
uniform float depthRange;

out vec4 finalColor;

void main() {
    if (texture(texture0, fragTexCoord).a < %.4f) discard;
    finalColor = vec4(vec3(clamp(viewDepth / depthRange, 0.0, 1.0)), 1.0);
}
`

const dofFragmentTemplate = `#version 330

in vec2 fragTexCoord;

uniform sampler2D texture0;
uniform sampler2D depthTexture;
uniform float focusDepth;
uniform float focalLength;
uniform float bokehScale;
uniform vec2 texelSize;

out vec4 finalColor;

const int TAPS = %d;
const vec2 kernel[TAPS] = vec2[TAPS](
%s
);

float coc(vec2 uv) {
    float d = texture(depthTexture, uv).r;
    return clamp(abs(d - focusDepth) / focalLength, 0.0, 1.0);
}

void main() {
    float radius = coc(fragTexCoord) * bokehScale;
    vec4 sum = texture(texture0, fragTexCoord);
    float weight = 1.0;

    if (radius > 0.5) {
        for (int i = 0; i < TAPS; i++) {
            vec2 uv = fragTexCoord + kernel[i] * radius * texelSize;
            sum += texture(texture0, uv);
            weight += 1.0;
        }
    }

    finalColor = sum / weight;
}
`

const vignetteFragmentSource = `#version 330

in vec2 fragTexCoord;

uniform sampler2D texture0;
uniform float offset;
uniform float darkness;

out vec4 finalColor;

void main() {
    vec4 color = texture(texture0, fragTexCoord);
    vec2 uv = (fragTexCoord - vec2(0.5)) * vec2(offset);
    finalColor = vec4(mix(color.rgb, vec3(1.0 - darkness), dot(uv, uv)), color.a);
}
`

// DepthSources is the shader that writes normalized linear depth for every
// texel that survives the layer material's alpha cutoff.
func DepthSources() (vs, fs string) {
	return depthVertexSource, fmt.Sprintf(depthFragmentTemplate, material.AlphaCutoff)
}

// DepthOfFieldSource is a fullscreen fragment shader; raylib's default vertex
// shader is used with it.
func DepthOfFieldSource() string {
	taps := DiscKernel(DiscTaps)
	lines := make([]string, len(taps))
	for i, k := range taps {
		lines[i] = fmt.Sprintf("    vec2(%.6f, %.6f)", k.X, k.Y)
	}
	return fmt.Sprintf(dofFragmentTemplate, DiscTaps, strings.Join(lines, ",\n"))
}

func VignetteSource() string {
	return vignetteFragmentSource
}
